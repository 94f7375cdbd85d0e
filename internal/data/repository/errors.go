package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes from https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownRole = errors.New("unknown role")
)

// DuplicateError reports a unique constraint the database rejected. It is
// how a lost race between two concurrent writes surfaces to callers.
type DuplicateError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s (%s)", e.Field, e.Constraint)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// CheckError reports a CHECK constraint violation.
type CheckError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("invalid %s (%s)", e.Field, e.Constraint)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

var constraintFields = map[string]string{
	"user_account_username_key":       "username",
	"user_account_phone_number_key":   "phone_number",
	"user_account_username_check":     "username",
	"user_account_phone_number_check": "phone_number",
	"user_account_status_check":       "status",
	"user_role_pkey":                  "roles",
	"role_name_key":                   "name",
}

// translateError converts constraint violations into typed errors and leaves
// everything else untouched.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	field := constraintFields[pgErr.ConstraintName]
	if field == "" {
		field = pgErr.ColumnName
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return &DuplicateError{Field: field, Constraint: pgErr.ConstraintName, Err: err}
	case pgCheckViolation:
		return &CheckError{Field: field, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
