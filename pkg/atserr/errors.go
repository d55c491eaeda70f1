// Package atserr defines the error taxonomy shared by the transport, the provider
// adapters and the request surfaces. Every failure reported to a caller is an *Error
// with a stable Kind, a human readable message and a retryable flag.
package atserr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the stable, caller-visible error category
type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindConnection     Kind = "ATS_CONNECTION_ERROR"
	KindAuthentication Kind = "ATS_AUTHENTICATION_ERROR"
	KindRateLimit      Kind = "ATS_RATE_LIMIT_ERROR"
	KindNotFound       Kind = "ATS_NOT_FOUND"
	KindService        Kind = "ATS_SERVICE_ERROR"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// DefaultRetryAfter applies when a throttled response carries no Retry-After header
const DefaultRetryAfter = 60 * time.Second

// Error is a classified failure
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Retryable  bool

	// RetryAfter is only set for KindRateLimit
	RetryAfter time.Duration

	// Details are caller-correctable hints (field -> problem)
	Details map[string]string

	// Detail is internal diagnostic text (body excerpts); logged, never serialized
	Detail string

	// Timeout marks connection errors caused by the request deadline
	Timeout bool

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind so errors.Is(err, &Error{Kind: KindNotFound}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Payload is the caller-visible representation of an error
type Payload struct {
	Error      Kind              `json:"error"`
	Message    string            `json:"message"`
	Retryable  bool              `json:"retryable"`
	Details    map[string]string `json:"details,omitempty"`
	RetryAfter *int              `json:"retry_after,omitempty"`
}

func (e *Error) Payload() Payload {
	p := Payload{
		Error:     e.Kind,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}
	if e.Kind == KindRateLimit {
		secs := int(e.RetryAfter / time.Second)
		p.RetryAfter = &secs
	}
	return p
}

func Validation(msg string, details map[string]string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    msg,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func Connection(msg string, err error) *Error {
	return &Error{
		Kind:       KindConnection,
		Message:    msg,
		StatusCode: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        err,
	}
}

// Timeout is a connection error caused by the per-request deadline
func Timeout(err error) *Error {
	e := Connection("Request to ATS service timed out", err)
	e.Timeout = true
	return e
}

func Authentication(msg string) *Error {
	if msg == "" {
		msg = "ATS authentication failed"
	}
	return &Error{
		Kind:       KindAuthentication,
		Message:    msg,
		StatusCode: http.StatusUnauthorized,
	}
}

// RateLimit reports a throttled request. A negative retryAfter means the provider
// gave no hint and DefaultRetryAfter applies; zero means retry immediately.
func RateLimit(retryAfter time.Duration) *Error {
	if retryAfter < 0 {
		retryAfter = DefaultRetryAfter
	}
	return &Error{
		Kind:       KindRateLimit,
		Message:    "ATS rate limit exceeded",
		StatusCode: http.StatusTooManyRequests,
		Retryable:  true,
		RetryAfter: retryAfter,
	}
}

func NotFound(resource, id string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s with ID '%s' not found", resource, id),
		StatusCode: http.StatusNotFound,
	}
}

// ResourceNotFound is a provider 404 with no caller-known resource id
func ResourceNotFound() *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    "Requested ATS resource not found",
		StatusCode: http.StatusNotFound,
	}
}

// Service is the catch-all provider-side failure
func Service(msg string, status int, retryable bool) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{
		Kind:       KindService,
		Message:    msg,
		StatusCode: status,
		Retryable:  retryable,
	}
}

func Internal(err error) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// WithDetail attaches internal diagnostic text
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// Wrap records the underlying cause
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// As extracts the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Normalize guarantees a classified error; unknown failures become KindInternal
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return Internal(err)
}

// KindOf returns the Kind of err or KindInternal when err is unclassified
func KindOf(err error) Kind {
	return Normalize(err).Kind
}

// IsRetryable reports the caller-visible retryable flag
func IsRetryable(err error) bool {
	if e, ok := As(err); ok {
		return e.Retryable
	}
	return false
}
