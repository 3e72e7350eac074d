// file: internals/helpers/app_error.go
package helper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindUpload          ErrorKind = "UPLOAD_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindDuplicateKey    ErrorKind = "DUPLICATE_KEY"
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindConstraint      ErrorKind = "CONSTRAINT_VIOLATION"
	KindStore           ErrorKind = "STORE_ERROR"
	KindInternal        ErrorKind = "INTERNAL"
)

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindUpload, KindInvalidArgument:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindDuplicateKey:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// AppError carries a stable kind plus the client-facing message. Err keeps
// the underlying cause for logs only.
type AppError struct {
	Kind    ErrorKind
	Message string
	Field   string              // offending file field for upload errors
	Missing []string            // required fields that were absent
	Fields  map[string][]string // per-field rule failures
	Err     error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing: %s)", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Err }

/* ===============================
   Constructors
=================================*/

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func MissingFieldsError(missing []string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: "Missing required fields: " + strings.Join(missing, ", "),
		Missing: missing,
	}
}

func FieldRulesError(fields map[string][]string) *AppError {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return &AppError{
		Kind:    KindValidation,
		Message: "Invalid value for: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

func NewUploadError(field, msg string) *AppError {
	return &AppError{Kind: KindUpload, Field: field, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewInvalidArgument(msg string) *AppError {
	return &AppError{Kind: KindInvalidArgument, Message: msg}
}

func NewDuplicateKey(msg string, cause error) *AppError {
	return &AppError{Kind: KindDuplicateKey, Message: msg, Err: cause}
}

func NewConstraintViolation(msg string, cause error) *AppError {
	return &AppError{Kind: KindConstraint, Message: msg, Err: cause}
}

func NewStoreError(msg string, cause error) *AppError {
	return &AppError{Kind: KindStore, Message: msg, Err: cause}
}

func NewInternal(cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Internal server error", Err: cause}
}

/* ===============================
   Inspection
=================================*/

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}
