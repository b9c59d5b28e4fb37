package service

import "fmt"

// Error taxonomy shared by every service. Handlers map these to HTTP codes:
// validation → 400, conflict → 409, not found → 404, unavailable → 503.
// Anything else is an internal error. Partial failures (loyalty accrual,
// delivery-row cleanup) never surface as errors at all — only as warnings.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError carries the existing OpenID so the caller can show which
// session already owns the date.
type ConflictError struct {
	Msg    string
	OpenID string
}

func (e *ConflictError) Error() string { return e.Msg }

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// UnavailableError wraps a backing-store failure or timeout. A timeout means
// "unknown", never "not found" — callers must not infer absence from it.
type UnavailableError struct {
	Msg string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func unavailable(err error, msg string) error {
	return &UnavailableError{Msg: msg, Err: err}
}
