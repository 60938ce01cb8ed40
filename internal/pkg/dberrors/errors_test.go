package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSQLStateClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "student_email_key"})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsDuplicateConstraintError(unique, "student_email_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "student_pkey"))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
}

func TestMessages(t *testing.T) {
	pgErr := fmt.Errorf("update: %w", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type numeric"})

	msg, ok := ServerMessage(pgErr)
	assert.True(t, ok)
	assert.Equal(t, "invalid input syntax for type numeric", msg)
	assert.Equal(t, msg, Message(pgErr))

	_, ok = ServerMessage(errors.New("conn closed"))
	assert.False(t, ok)
	assert.Equal(t, "conn closed", Message(errors.New("conn closed")))
	assert.Equal(t, "", Message(nil))
}
