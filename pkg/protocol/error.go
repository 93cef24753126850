// Package protocol defines the failures reported by Vinli service clients.
//
// Failures are never retried by this module. Callers that want to retry can use [Temporary] to
// decide whether a failure might resolve on its own.
package protocol

import (
	"errors"
	"fmt"
	"net/http"
)

// Error exposes methods useful for categorizing errors.
type Error interface {
	error

	// Temporary returns true if the Error might be the result of a transient condition, such as
	// a dropped connection or an overloaded backend.
	Temporary() bool
}

var (
	// ErrConfiguration indicates the client could not be constructed. Errors returned from
	// constructors wrap ErrConfiguration with details.
	ErrConfiguration = errors.New("invalid client configuration")
	// ErrMissingItem indicates a single-item envelope did not contain its item.
	ErrMissingItem = errors.New("response envelope does not contain an item")
	// ErrBadResponse indicates a response body could not be decoded.
	ErrBadResponse = errors.New("invalid response")
	// ErrNoLink indicates a client tried to follow an empty hypermedia link.
	ErrNoLink = errors.New("no link to follow")
)

// ConfigurationError returns an error wrapping ErrConfiguration.
func ConfigurationError(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, a...))
}

// TransportError indicates the request never produced an HTTP response (DNS, TLS, connection
// reset, timeout) or the response body could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Temporary() bool {
	return true
}

// HttpError is returned when a backend responds with a status outside the 2xx range. Body holds
// the raw response body, which usually carries the backend's own error message.
type HttpError struct {
	Code int
	URL  string
	Body []byte
}

func (e *HttpError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error %d from %s: %s", e.Code, e.URL, http.StatusText(e.Code))
	}
	return fmt.Sprintf("http error %d from %s: %s", e.Code, e.URL, e.Body)
}

// Status returns the canonical text for e.Code.
func (e *HttpError) Status() string {
	return http.StatusText(e.Code)
}

func (e *HttpError) Temporary() bool {
	return e.Code == http.StatusServiceUnavailable ||
		e.Code == http.StatusGatewayTimeout ||
		e.Code == http.StatusBadGateway ||
		e.Code == http.StatusRequestTimeout ||
		e.Code == http.StatusTooManyRequests
}

// Temporary returns true if err indicates a failure caused by possibly transient conditions.
func Temporary(err error) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Temporary()
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or zero if err is not an [HttpError].
func StatusCode(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return 0
}
