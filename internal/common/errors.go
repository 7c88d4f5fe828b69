// Package common defines shared constants and the error taxonomy used across
// client and server layers of gophauth. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorValidation   = errors.New("validation error")

	// Token errors. Services wrap both into ErrorUnauthorized.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation, in the order the
// checks ran. It matches ErrorValidation and unwraps to its cause, if any.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Add records a violation for field. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	if e.Has(field) {
		return
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field already has a recorded violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Map returns the violations keyed by field name.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

// Message returns the first violation message, suitable for a one-line reply.
func (e *ValidationError) Message() string {
	if len(e.Fields) == 0 {
		return ErrorValidation.Error()
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrorValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrorValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

func (e *ValidationError) Unwrap() error { return e.cause }

// ConflictError reports a uniqueness violation on Field ("username" or "email").
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, ErrorAlreadyExists.Error())
}

func (e *ConflictError) Is(target error) bool { return target == ErrorAlreadyExists }

// Message is the user-facing text for the conflicting field.
func (e *ConflictError) Message() string {
	switch e.Field {
	case "email":
		return "email already registered"
	case "username":
		return "username already taken"
	default:
		return e.Field + " already in use"
	}
}

// AsValidation turns the conflict into a ValidationError that names the field
// and still unwraps to e.
func (e *ConflictError) AsValidation() *ValidationError {
	v := &ValidationError{cause: e}
	v.Add(e.Field, e.Message())
	return v
}

// ValidationFromMap rebuilds a ValidationError from a field map, ordering the
// fields by name. Used by the client when decoding server replies.
func ValidationFromMap(fields map[string]string) *ValidationError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := NewValidationError()
	for _, k := range keys {
		v.Add(k, fields[k])
	}
	return v
}
