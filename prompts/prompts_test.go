package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/dataset"
)

func TestScriptedPrompter_QueuesAndDecline(t *testing.T) {
	p := &ScriptedPrompter{
		Confirms: []bool{true},
		Texts:    []string{"Name", "Age"},
	}

	assert.True(t, Confirmed(p, "first?", false))
	assert.False(t, Confirmed(p, "second?", true), "exhausted queue must read as decline")

	names, err := p.AskText([]string{"col 1", "col 2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, names)

	_, err = p.AskText([]string{"col 3"})
	assert.True(t, errors.Is(err, ErrDeclined))
	assert.Equal(t, []string{"first?", "second?", "col 1", "col 2", "col 3"}, p.Asked)
}

func TestScriptedPrompter_MultiSelectKeepsOptionOrder(t *testing.T) {
	p := &ScriptedPrompter{MultiSelects: [][]string{{"city", "id", "bogus"}}}

	chosen, err := p.AskMultiSelect("keys", []string{"id", "name", "city"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city"}, chosen)
}

func TestScriptedPrompter_SelectOutOfRange(t *testing.T) {
	p := &ScriptedPrompter{Selects: []int{5}}
	_, err := p.AskSelect("keep", []string{"a", "b"})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestDefaultsPrompter(t *testing.T) {
	p := NewDefaultsPrompter(dataset.DateFormatYMD)

	ok, err := p.Confirm("delete?", false)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.AskText([]string{"name"})
	assert.ErrorIs(t, err, ErrDeclined)

	idx, err := p.AskSelect("keep", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	f, err := p.AskDateFormat(dataset.DateFormats)
	require.NoError(t, err)
	assert.Equal(t, dataset.DateFormatYMD, f)
	assert.True(t, IsNonInteractive(p))
	assert.False(t, IsNonInteractive(&ScriptedPrompter{}))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(errors.New("eof")), ErrDeclined)
}
