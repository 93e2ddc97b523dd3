package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeStatus indicates the downstream answered with a non-2xx status.
	ErrCodeStatus
	// ErrCodeDecode indicates the response body could not be decoded.
	ErrCodeDecode
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest
	// ErrCodeCircuitOpen indicates the call was refused locally because the
	// downstream's circuit breaker is open.
	ErrCodeCircuitOpen
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeStatus:
		return "status"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeRequest:
		return "request"
	case ErrCodeCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is returned for every failed call. StatusCode is set when the
// downstream answered; callers translate it into domain errors.
type Error struct {
	Service    string
	StatusCode int
	Code       ErrorCode
	Message    string
	// Body is the raw response body (may be nil).
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient %s: %s (HTTP %d): %s", e.Service, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient %s: %s: %s", e.Service, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newTimeoutError(service string, err error) *Error {
	return &Error{Service: service, Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

func newConnectionError(service string, err error) *Error {
	return &Error{Service: service, Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

func newRequestError(service string, err error) *Error {
	return &Error{Service: service, Code: ErrCodeRequest, Message: err.Error(), Err: err}
}

func newCircuitOpenError(service string, err error) *Error {
	return &Error{Service: service, Code: ErrCodeCircuitOpen, Message: "downstream unavailable", Err: err}
}

func newDecodeError(service string, status int, body []byte, err error) *Error {
	return &Error{Service: service, StatusCode: status, Code: ErrCodeDecode, Message: err.Error(), Body: body, Err: err}
}

// classifyStatus returns nil for 2xx, a status error otherwise.
func classifyStatus(service string, status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := fmt.Sprintf("HTTP %d", status)
	if env, err := peekEnvelope(body); err == nil && env.Message != "" {
		msg = env.Message
	}
	return &Error{Service: service, StatusCode: status, Code: ErrCodeStatus, Message: msg, Body: body}
}

// StatusCode returns the downstream HTTP status carried by err, or 0 when
// the call never got an answer.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsStatus reports whether err is a downstream answer with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStatus && e.StatusCode == status
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsOutage reports whether err means the downstream itself is failing: no
// answer at all, or a 5xx. These are the failures a circuit breaker counts.
func IsOutage(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection:
		return true
	case ErrCodeStatus:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// IsCircuitOpen reports whether the call was short-circuited by the breaker.
func IsCircuitOpen(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircuitOpen
}
