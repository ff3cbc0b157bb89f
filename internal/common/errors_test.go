package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_IsErrStore(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("wrapped: %w", NewStoreError("insert question", cause))

	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "wrapped: db error: insert question: connection reset", err.Error())
}

func TestStoreError_As(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewStoreError("select account", context.Canceled))

	var se *StoreError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, "select account", se.Op)
		assert.ErrorIs(t, se, context.Canceled)
	}
}

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrDuplicateAccount, ErrStore, ErrUnauthorized,
		ErrCannotDecryptToken, ErrWrongPassword, ErrHashing, ErrMissingSecretKey, ErrInvalidArgument,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}
