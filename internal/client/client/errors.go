package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrServer       = errors.New("server error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx reply decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.kind != nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

// Validation returns the field messages as a common.ValidationError, or nil
// when the reply named no fields.
func (e *APIError) Validation() *common.ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return common.ValidationFromMap(e.Fields)
}
