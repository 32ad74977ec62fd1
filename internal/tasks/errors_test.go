package tasks

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	vErr := validationFailed([]string{"a", "b"})

	assert.Equal(t, KindValidation, KindOf(vErr))
	assert.Equal(t, []string{"a", "b"}, Violations(vErr))
	assert.False(t, errors.Is(vErr, ErrNotFound))

	wrapped := fmt.Errorf("handler: %w", ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Nil(t, Violations(wrapped))
	assert.Equal(t, "not_found: Task not found", ErrNotFound.Error())

	plain := errors.New("disk full")
	assert.Equal(t, KindUnknown, KindOf(plain))
	assert.Equal(t, "error", outcomeOf(plain))
	assert.Equal(t, "ok", outcomeOf(nil))
}
