package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidTextRepr     = "22P02"
)

// pgCode extracts the SQLSTATE plus constraint name from pgx or lib/pq errors.
func pgCode(err error) (code, constraint, detail string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, pgErr.Detail, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Detail, true
	}
	return "", "", "", false
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if code, _, _, ok := pgCode(err); ok {
		return code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// UniqueViolationOn reports whether err is a unique violation that mentions
// column in its constraint name or detail.
func UniqueViolationOn(err error, column string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	if _, constraint, detail, ok := pgCode(err); ok {
		return strings.Contains(constraint, column) || strings.Contains(detail, "("+column+")")
	}
	return strings.Contains(err.Error(), column)
}

func isNotNullViolation(err error) bool {
	if code, _, _, ok := pgCode(err); ok {
		return code == pgNotNullViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "not null constraint")
}

// MapStoreError translates a driver error into the AppError taxonomy.
// msg is used for the store-error fallback.
func MapStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFound("Application not found")
	}
	if IsUniqueViolation(err) {
		if UniqueViolationOn(err, "email") {
			return NewDuplicateKey("An application with this email already exists", err)
		}
		return NewDuplicateKey("Duplicate value", err)
	}
	if isNotNullViolation(err) {
		return NewConstraintViolation("A required column was empty", err)
	}
	if code, _, _, ok := pgCode(err); ok {
		switch code {
		case pgForeignKeyViolation, pgCheckViolation:
			return NewConstraintViolation("Constraint violation", err)
		case pgInvalidTextRepr:
			return NewInvalidArgument("Malformed value")
		}
	}
	return NewStoreError(msg, err)
}
