package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrMissingAPIKey is returned before any network call when no key resolved.
var ErrMissingAPIKey = errors.New("no API key configured")

// RequestError is a transport failure that produced no HTTP status.
// Code identifies the failure class (ETIMEDOUT, ECONNREFUSED, ...).
type RequestError struct {
	Code string
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%s): %v", e.Code, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// APIError is an HTTP response with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error: status=%d, message=%q", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("API error: status=%d", e.StatusCode)
}

// StreamError wraps a failure that occurred mid-stream, after the response
// headers were already received.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string { return fmt.Sprintf("stream interrupted: %v", e.Err) }

func (e *StreamError) Unwrap() error { return e.Err }

// wrapTransportError converts a raw net/http failure into a RequestError
// with a stable code.
func wrapTransportError(err error) error {
	if err == nil {
		return nil
	}

	code := "EUNKNOWN"

	var (
		netErr net.Error
		dnsErr *net.DNSError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = "ETIMEDOUT"
	case errors.As(err, &netErr) && netErr.Timeout():
		code = "ETIMEDOUT"
	case errors.As(err, &dnsErr):
		code = "ENOTFOUND"
	case errors.Is(err, syscall.ECONNREFUSED):
		code = "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		code = "ECONNRESET"
	case errors.Is(err, context.Canceled):
		code = "ECANCELED"
	}

	return &RequestError{Code: code, Err: err}
}
