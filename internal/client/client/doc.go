// Package client talks to the gophauth HTTP API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// the JSON-over-HTTP implementation. Authentication state is an explicit
// Session value returned by Register and Login and passed back to calls that
// need it, so the caller decides where it lives and when it is dropped.
//
// # Error Handling
//
// Failures are matched with errors.Is against ErrUnavailable, ErrServer,
// ErrUnauthorized, ErrValidation, ErrConflict and ErrNotFound. Replies with
// a body are also returned as *APIError, which carries per-field messages.
package client
