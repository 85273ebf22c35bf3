package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(KindInvalidInput, "loader", "Configure", "batch size out of range")
	assert.Contains(t, e.Error(), "loader")
	assert.Contains(t, e.Error(), "invalid_input")
	assert.Contains(t, e.Error(), "batch size out of range")
}

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := IoError("mmapfile", "Open", cause)

	assert.Equal(t, cause, errors.Unwrap(e))
	assert.ErrorIs(t, e, cause)
}

func TestAppError_IsMatchesOnKind(t *testing.T) {
	a := ModelNotFitted("svm", "Predict")
	b := ModelNotFitted("cluster", "Label")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, InvalidInput("x", "y", "z")))
}
