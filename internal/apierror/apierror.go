// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, upstream errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ConflictError extends the envelope with the id of the record that already
// owns the resource, so the client can resume instead of retrying blindly.
type ConflictError struct {
	Detail string `json:"detail"`
	OpenID string `json:"openId,omitempty"`
}

func NewConflict(msg, openID string) *ConflictError {
	return &ConflictError{Detail: msg, OpenID: openID}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
