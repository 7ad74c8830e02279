package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Newf(CodeDuplicatePlayer, "player %q already registered", "Ann")
	wrapped := fmt.Errorf("register: %w", err)

	assert.ErrorIs(t, wrapped, ErrDuplicatePlayer)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, CodeDuplicatePlayer, CodeOf(wrapped))
}

func TestRetryable(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "unavailable", err: New(CodeStorageUnavailable, "x"), expected: true},
		{name: "conflict", err: New(CodeStorageConflict, "x"), expected: true},
		{name: "validation", err: New(CodeInvalidArgument, "x"), expected: false},
		{name: "plain", err: errors.New("boom"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Retryable(tc.err))
		})
	}
}

func TestFromStorage(t *testing.T) {
	assert.NoError(t, FromStorage("put", nil))

	timeout := FromStorage("put entities", context.DeadlineExceeded)
	assert.ErrorIs(t, timeout, ErrStorageUnavailable)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	conflict := New(CodeStorageConflict, "version moved")
	assert.Same(t, conflict, FromStorage("put entities", conflict))

	assert.ErrorIs(t, FromStorage("query", errors.New("disk on fire")), ErrStorageUnavailable)
}
