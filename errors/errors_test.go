package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewFatalError("failed to save file", inner)

	assert.Equal(t, "failed to save file: disk full", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(NewFatalError("failed to save file", nil)))
	assert.Equal(t, 1, ExitCode(NewDeclinedError("no header names provided", nil)))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestMalformedRowError_As(t *testing.T) {
	err := fmt.Errorf("load: %w", NewMalformedRowError(4, 5, 4, 3, "Possible issue at column 3"))

	var rowErr *MalformedRowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 4, rowErr.Row)
	assert.Equal(t, 3, rowErr.Column)
	assert.Contains(t, rowErr.Error(), "row 4 has 5 columns but header has 4")
	assert.True(t, IsFatal(err))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"declined", NewDeclinedError("header prompt cancelled", nil), KindDeclined},
		{"recoverable", NewRecoverableError("bad number", nil), KindRecoverable},
		{"precondition", NewMissingPreconditionError("no inferred types"), KindMissingPrecondition},
		{"plain error", errors.New("boom"), KindFatal},
		{"wrapped declined", fmt.Errorf("stage: %w", NewDeclinedError("no", nil)), KindDeclined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapError_PreservesKind(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ignored"))

	wrapped := WrapError(NewUnsupportedFormatError(".txt").WithContext("input.txt"), "load failed")
	assert.Equal(t, KindFatal, wrapped.Kind)
	assert.Equal(t, "input.txt", wrapped.GetContext())
	assert.Contains(t, wrapped.Error(), "load failed: unsupported file type")
}
