package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	assert.ErrorIs(t, ErrStudentNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrEmailAlreadyInUse, ErrConflict)
	assert.ErrorIs(t, ErrStudentHasRelations, ErrConflict)
	assert.ErrorIs(t, fmt.Errorf("get: %w", ErrInvalidStudentID), ErrValidationFailed)
	assert.NotErrorIs(t, ErrStudentNotFound, ErrConflict)
}

func TestMessage(t *testing.T) {
	msg, ok := Message(fmt.Errorf("update: %w", ErrEmailAlreadyInUse))
	assert.True(t, ok)
	assert.Equal(t, "Email already in use", msg)

	_, ok = Message(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, "validation failed", (&CustomError{Err: ErrValidationFailed}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
