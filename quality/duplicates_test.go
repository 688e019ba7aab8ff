package quality

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/dataset"
	"datacleaner/prompts"
)

// customers генерирует n строк с уникальными id
func customers(n int) [][]dataset.Value {
	faker := gofakeit.New(42)
	rows := make([][]dataset.Value, n)
	for i := range rows {
		rows[i] = []dataset.Value{
			dataset.Text(fmt.Sprintf("C%03d", i)),
			dataset.Text(faker.Name()),
			dataset.Text(faker.City()),
			dataset.Number(float64(faker.Number(18, 90))),
		}
	}
	return rows
}

func customerContext(rows [][]dataset.Value) *dataset.PipelineContext {
	return dataset.NewPipelineContext(dataset.NewTable([]string{"id", "name", "city", "age"}, rows))
}

func ids(t *dataset.Table) []string {
	out := make([]string, t.Len())
	for i := range out {
		out[i] = t.Cell(i, 0).String()
	}
	return out
}

func TestResolve_IdenticalCopiesKeepFirst(t *testing.T) {
	rows := customers(10)
	rows = append(rows, rows[2], rows[5], rows[2])
	pc := customerContext(rows)
	p := &prompts.ScriptedPrompter{Confirms: []bool{true}, MultiSelects: [][]string{{"id"}}}

	report := NewDuplicateResolver(p, &bytes.Buffer{}).Resolve(pc)

	assert.Equal(t, 2, report.Groups)
	assert.Equal(t, 3, report.AutoDrop)
	assert.Zero(t, report.ChosenDrop)
	require.Equal(t, 10, pc.Table.Len())
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("C%03d", i), pc.Table.Cell(i, 0).String(), "first occurrence must survive in place")
	}
	assert.Len(t, p.Asked, 2, "no row selection for identical copies")
}

func TestResolve_DifferingRowsAskOperator(t *testing.T) {
	pc := customerContext([][]dataset.Value{
		{dataset.Text("A"), dataset.Text("Ann"), dataset.Text("Pune"), dataset.Number(30)},
		{dataset.Text("B"), dataset.Text("Bob"), dataset.Text("Delhi"), dataset.Number(41)},
		{dataset.Text("A"), dataset.Text("Ann"), dataset.Text("Mumbai"), dataset.Number(30)},
	})
	p := &prompts.ScriptedPrompter{
		Confirms:     []bool{true},
		MultiSelects: [][]string{{"id"}},
		Selects:      []int{1},
	}
	var out bytes.Buffer

	report := NewDuplicateResolver(p, &out).Resolve(pc)

	assert.Equal(t, 1, report.ChosenDrop)
	assert.Contains(t, out.String(), "[0] A, Ann, Pune, 30")
	assert.Contains(t, out.String(), "[2] A, Ann, Mumbai, 30")
	assert.Contains(t, p.Asked, "Which row would you like to KEEP?")
	assert.Equal(t, []string{"B", "A"}, ids(pc.Table))
	assert.Equal(t, "Mumbai", pc.Table.Cell(1, 2).String())
}

func TestResolve_DeclinedSelectionKeepsGroup(t *testing.T) {
	pc := customerContext([][]dataset.Value{
		{dataset.Text("A"), dataset.Text("Ann"), dataset.Text("Pune"), dataset.Number(30)},
		{dataset.Text("A"), dataset.Text("Ann"), dataset.Text("Goa"), dataset.Number(30)},
	})
	p := &prompts.ScriptedPrompter{Confirms: []bool{true}, MultiSelects: [][]string{{"id"}}}

	report := NewDuplicateResolver(p, &bytes.Buffer{}).Resolve(pc)

	assert.Equal(t, 1, report.Unresolved)
	assert.Zero(t, report.Removed())
	assert.Equal(t, 2, pc.Table.Len())
}

func TestResolve_OptOut(t *testing.T) {
	rows := customers(4)
	rows = append(rows, rows[0])
	pc := customerContext(rows)
	p := &prompts.ScriptedPrompter{Confirms: []bool{false}}

	report := NewDuplicateResolver(p, &bytes.Buffer{}).Resolve(pc)

	assert.True(t, report.Skipped())
	assert.Equal(t, 5, pc.Table.Len())
}

func TestResolve_NoColumnsSelected(t *testing.T) {
	rows := customers(3)
	rows = append(rows, rows[1])
	pc := customerContext(rows)
	p := &prompts.ScriptedPrompter{Confirms: []bool{true}, MultiSelects: [][]string{{}}}

	report := NewDuplicateResolver(p, &bytes.Buffer{}).Resolve(pc)

	assert.True(t, report.Skipped())
	assert.Equal(t, 4, pc.Table.Len())
}

func TestResolve_CompositeKeyAndAbsentValues(t *testing.T) {
	pc := customerContext([][]dataset.Value{
		{dataset.Absent(), dataset.Text("Ann"), dataset.Text("Pune"), dataset.Number(30)},
		{dataset.Absent(), dataset.Text("Ann"), dataset.Text("Pune"), dataset.Number(30)},
		{dataset.Text("B"), dataset.Text("Bob"), dataset.Text("Pune"), dataset.Number(41)},
		{dataset.Text("B"), dataset.Text("Bob"), dataset.Text("Goa"), dataset.Number(41)},
	})
	p := &prompts.ScriptedPrompter{Confirms: []bool{true}, MultiSelects: [][]string{{"id", "city"}}}

	report := NewDuplicateResolver(p, &bytes.Buffer{}).Resolve(pc)

	assert.Equal(t, []string{"id", "city"}, report.Keys)
	assert.Equal(t, 1, report.AutoDrop, "absent keys compare equal")
	assert.Equal(t, 3, pc.Table.Len())
	assert.Equal(t, "Goa", pc.Table.Cell(2, 2).String())
}

func TestResolve_SecondPassIsNoOp(t *testing.T) {
	rows := customers(6)
	rows = append(rows, rows[3])
	pc := customerContext(rows)
	resolver := NewDuplicateResolver(&prompts.ScriptedPrompter{
		Confirms:     []bool{true, true},
		MultiSelects: [][]string{{"id"}, {"id"}},
	}, &bytes.Buffer{})

	first := resolver.Resolve(pc)
	second := resolver.Resolve(pc)

	assert.Equal(t, 1, first.Removed())
	assert.Zero(t, second.Groups)
	assert.Equal(t, 6, pc.Table.Len())
}

func TestGroupByKey_FirstOccurrenceOrder(t *testing.T) {
	tbl := dataset.NewTable([]string{"k"}, [][]dataset.Value{
		{dataset.Text("b")},
		{dataset.Text("a")},
		{dataset.Text("a")},
		{dataset.Text("c")},
		{dataset.Text("b")},
	})

	assert.Equal(t, [][]int{{0, 4}, {1, 2}}, groupByKey(tbl, []int{0}))
	assert.Nil(t, groupByKey(tbl, nil))
}
