package shared

import (
	"errors"
	"fmt"
	"strings"
)

// RequestError is used when we want a specific error message and StatusCode.
// The error boundary turns the status code into the error name of the
// response body and uses Err as the details shown to the caller, so Err
// must never carry internals.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

func (r *RequestError) Unwrap() error {
	return r.Err
}

var (
	ErrUnauthorized  = &RequestError{Err: errors.New("Missing or invalid API key"), StatusCode: 401}
	ErrMalformedBody = &RequestError{Err: errors.New("Body must be JSON"), StatusCode: 400}
	ErrReadingBody   = &RequestError{Err: errors.New("failed to read request body"), StatusCode: 400}

	ErrInternalServerError = &RequestError{Err: errors.New("An unexpected error occurred"), StatusCode: 500}
)

// ValidationError holds every schema violation found in a request body
type ValidationError struct {
	Violations []string
}

func (v *ValidationError) Error() string {
	return "invalid input: " + v.Details()
}

// Details joins the violations the way they are reported to clients
func (v *ValidationError) Details() string {
	return strings.Join(v.Violations, "; ")
}

// Add appends a violation, ignoring exact duplicates
func (v *ValidationError) Add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	for _, existing := range v.Violations {
		if existing == msg {
			return
		}
	}
	v.Violations = append(v.Violations, msg)
}

// OrNil returns nil when nothing was violated, so callers can return it directly
func (v *ValidationError) OrNil() error {
	if len(v.Violations) == 0 {
		return nil
	}
	return v
}
