package api

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError indicates a failed login or customer-database selection. It is
// fatal: nothing useful can run without a session.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response from the iSee API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request to %s failed: %s: %s", e.Endpoint, e.Status, e.Body)
}

// IsNotFound reports whether err is a 404. Upsert flows treat it as the
// create trigger; delete flows treat it as a skip.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsPreconditionFailed reports whether err is a 412, i.e. the concurrency
// token went stale. Never auto-retried: a blind retry could overwrite
// intervening changes, so the operator re-runs with fresh data.
func IsPreconditionFailed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusPreconditionFailed
}
