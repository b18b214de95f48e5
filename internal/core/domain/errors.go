package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidUser        = errors.New("invalid user record")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSubmissionInFlight = errors.New("a submission for this form is already in progress")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrNoFiles            = errors.New("no files to process")
	ErrProjectRequired    = errors.New("no project selected, upload project documents first")

	// ErrBackendRejected means the backend answered but reported failure.
	ErrBackendRejected = errors.New("backend rejected the request")
	// ErrBackendUnavailable means the backend could not be reached at all.
	ErrBackendUnavailable = errors.New("could not connect to the server")
	// ErrBackendContract means the backend answered with a payload that does
	// not match the documented shape.
	ErrBackendContract = errors.New("unexpected backend response")
)

// NetworkErrorMessage is shown whenever the backend cannot be reached.
const NetworkErrorMessage = "Could not connect to the server. Please try again."

// BackendError carries the status and message of a rejected backend call.
// It matches ErrBackendRejected with errors.Is.
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

func (e *BackendError) Unwrap() error { return ErrBackendRejected }

// BackendMessage returns the user-facing message carried by err, or fallback
// when err does not carry one.
func BackendMessage(err error, fallback string) string {
	if errors.Is(err, ErrBackendUnavailable) {
		return NetworkErrorMessage
	}
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}
