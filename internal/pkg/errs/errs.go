// Package errs holds the error taxonomy shared by every layer: validation,
// not found, conflict and persistence failures. Kinds are attached as
// cockroachdb marks so they survive wrapping.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

var (
	ErrValidation   = cr.New("validation error")
	ErrNotFound     = cr.New("not found")
	ErrConflict     = cr.New("conflict")
	ErrPersistence  = cr.New("persistence error")
	ErrUnauthorized = cr.New("unauthorized")
	ErrForbidden    = cr.New("forbidden")
)

// FieldError names the input field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func Validation(field, msg string) error {
	return cr.Mark(&FieldError{Field: field, Message: msg}, ErrValidation)
}

func Validationf(field, format string, args ...any) error {
	return Validation(field, fmt.Sprintf(format, args...))
}

func NotFound(what string) error {
	return cr.Mark(cr.Newf("%s not found", what), ErrNotFound)
}

func Conflict(msg string) error {
	return cr.Mark(cr.New(msg), ErrConflict)
}

func Unauthorized(msg string) error {
	return cr.Mark(cr.New(msg), ErrUnauthorized)
}

func Forbidden(msg string) error {
	return cr.Mark(cr.New(msg), ErrForbidden)
}

func Persistence(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Mark(cr.Wrap(err, msg), ErrPersistence)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return cr.Mark(err, kind)
}

func Is(err, kind error) bool {
	return cr.Is(err, kind)
}

// Field returns the offending field of a validation error, or "".
func Field(err error) string {
	var fe *FieldError
	if cr.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// Message returns the caller-facing text of err without wrapping prefixes.
func Message(err error) string {
	var fe *FieldError
	if cr.As(err, &fe) {
		return fe.Message
	}
	return cr.UnwrapAll(err).Error()
}

// KindOf reports the taxonomy name of err. Unknown errors are INTERNAL.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case Is(err, ErrNotFound):
		return "NOT_FOUND"
	case Is(err, ErrConflict):
		return "CONFLICT"
	case Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case Is(err, ErrForbidden):
		return "FORBIDDEN"
	case Is(err, ErrPersistence):
		return "PERSISTENCE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
