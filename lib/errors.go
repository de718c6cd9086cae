package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrAccessDenied   = errors.New("access policy rejected the write")
	ErrNoConfirmation = errors.New("write returned no rows")
	ErrRemoteDisabled = errors.New("remote store not configured")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Content errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidPrice      = errors.New("invalid price")
)

// SQLSTATE codes the content store distinguishes.
const (
	PgUndefinedColumn       = "42703"
	PgInsufficientPrivilege = "42501"
	PgUniqueViolation       = "23505"
	PgNoDataFound           = "P0002"
)

// PgCode returns the SQLSTATE carried by err, or "".
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// MapPgError wraps err with the sentinel matching its SQLSTATE so callers
// can use errors.Is without importing pgconn.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(ErrNotFound, err)
	}
	switch PgCode(err) {
	case PgUniqueViolation:
		return errors.Join(ErrConflict, err)
	case PgNoDataFound:
		return errors.Join(ErrNotFound, err)
	case PgUndefinedColumn:
		return errors.Join(ErrSchemaMismatch, err)
	case PgInsufficientPrivilege:
		return errors.Join(ErrAccessDenied, err)
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}
