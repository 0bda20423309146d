package parity

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFIG   = "config"
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parity error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FetchErrorKind classifies why a fetch failed.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchTimeout      FetchErrorKind = "timeout"
	FetchRedirectLoop FetchErrorKind = "redirect-loop"
	FetchHTTP4xx      FetchErrorKind = "http-4xx"
	FetchHTTP5xx      FetchErrorKind = "http-5xx"
	FetchNetwork      FetchErrorKind = "network"
)

// FetchError is returned by Fetcher implementations when a URL could not be
// retrieved. It wraps the underlying cause.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", e.URL, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is transient and worth retrying.
// Timeouts, 5xx responses and network errors are transient; 4xx responses
// and redirect loops are not.
func (e *FetchError) Temporary() bool {
	switch e.Kind {
	case FetchTimeout, FetchHTTP5xx, FetchNetwork:
		return true
	}
	return false
}

// IsNotFound reports whether the server answered 404 or 410.
func (e *FetchError) IsNotFound() bool {
	return e.Kind == FetchHTTP4xx && (e.StatusCode == 404 || e.StatusCode == 410)
}

// NewStatusError returns a FetchError for a non-success HTTP status code,
// or nil if the status is a success.
func NewStatusError(url string, status int) *FetchError {
	switch {
	case status >= 500:
		return &FetchError{Kind: FetchHTTP5xx, URL: url, StatusCode: status}
	case status >= 400:
		return &FetchError{Kind: FetchHTTP4xx, URL: url, StatusCode: status}
	}
	return nil
}
