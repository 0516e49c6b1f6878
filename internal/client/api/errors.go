package api

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// BackendError carries the backend's user-facing message. The auth flow
// matches these messages by string, so Error returns the message verbatim.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string { return e.Message }
