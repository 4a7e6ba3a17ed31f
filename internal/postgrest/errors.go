package postgrest

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied indicates a row-level policy rejection (SQLSTATE 42501).
	ErrPermissionDenied = errors.New("postgrest: permission denied by row-level policy")

	// ErrForeignKeyViolation indicates a missing dependent row (SQLSTATE 23503),
	// typically the profile prerequisite.
	ErrForeignKeyViolation = errors.New("postgrest: foreign key violation")

	// ErrUniqueViolation indicates a unique constraint rejection (SQLSTATE 23505).
	ErrUniqueViolation = errors.New("postgrest: unique violation")

	// ErrNotFound indicates a single-object request matched no rows.
	ErrNotFound = errors.New("postgrest: no rows found")

	// ErrUndefinedColumn indicates a predicate named a column the deployed
	// schema does not have (SQLSTATE 42703). Signals schema drift.
	ErrUndefinedColumn = errors.New("postgrest: undefined column")

	// ErrUnavailable indicates a transport-level failure reaching the store.
	ErrUnavailable = errors.New("postgrest: store unavailable")
)

// SQLSTATE and PostgREST codes recognized by the error mapping.
const (
	codePermissionDenied    = "42501"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeNoRows              = "PGRST116"
	codeUndefinedColumn     = "42703"
)

// Error is a structured error returned by the store.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %s (code %s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("postgrest: %s (status %d)", e.Message, e.Status)
}

// Unwrap maps known store codes onto sentinel errors so callers can use
// errors.Is without parsing SQLSTATE strings.
func (e *Error) Unwrap() error {
	switch e.Code {
	case codePermissionDenied:
		return ErrPermissionDenied
	case codeForeignKeyViolation:
		return ErrForeignKeyViolation
	case codeUniqueViolation:
		return ErrUniqueViolation
	case codeNoRows:
		return ErrNotFound
	case codeUndefinedColumn:
		return ErrUndefinedColumn
	}
	return nil
}
