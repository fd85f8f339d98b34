// Package errors holds the sentinel and typed errors shared by the core
// runtime packages (urlspace, httprequest, filterchain, event, lifecycle,
// njson, cookie). Typed errors carry the machine-readable fields callers
// need (byte offsets, reasons); sentinels are for errors.Is comparisons.
package errors

import (
	"errors"
	"fmt"
)

// Static errors for errors.Is comparisons. Wrap with fmt.Errorf and %w
// when a call site needs to attach context.
var (
	// URL-space errors
	ErrNotFound       = errors.New("url-space: no matching entry")
	ErrSealed         = errors.New("atom table sealed")
	ErrInvalidIDSpace = errors.New("url-space: invalid id space")

	// Dispatcher / authorization errors
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	// ErrBadRequest is returned when no handler resolves for a request
	// whose method is the BAD sentinel (the request line itself failed
	// to parse into a recognized method).
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidMethod is returned when no handler resolves for a
	// request whose method is a known HTTP verb, but nothing is
	// registered for it at this URL.
	ErrInvalidMethod = errors.New("invalid method for this url")

	// Reader-side signals, raised before the dispatcher runs
	ErrEntityTooLarge    = errors.New("entity too large")
	ErrRequestURITooLong = errors.New("request uri too long")
	ErrLineTooLong       = errors.New("header line too long")

	// Event queue errors
	ErrQueueFull      = errors.New("event queue: no free slots")
	ErrQueueShutdown  = errors.New("event queue: shut down")
	ErrWakeupPipeDead = errors.New("event queue: wake-up pipe read failed")

	// Lifecycle errors
	ErrShutdownPending = errors.New("lifecycle: registration rejected, shutdown pending")
	ErrShutdownTimeout = errors.New("lifecycle: shutdown wait timed out")

	// Cookie / header errors
	ErrCookieNotFound  = errors.New("cookie not found")
	ErrMalformedHeader = errors.New("malformed header line")
)

// Reason is a short machine-readable tag for a ParseError, matching the
// taxonomy shared across the runtime packages.
type Reason string

const (
	ReasonMalformedRequest     Reason = "malformed_request"
	ReasonLooksLikeTLS         Reason = "looks_like_tls"
	ReasonMalformedNumber      Reason = "malformed_number"
	ReasonNumberNotFinite      Reason = "number_not_finite"
	ReasonMaxDepthExceeded     Reason = "max_depth_exceeded"
	ReasonMaxStringExceeded    Reason = "max_string_exceeded"
	ReasonMaxContainerExceed   Reason = "max_container_exceeded"
	ReasonInvalidEscape        Reason = "invalid_escape"
	ReasonUnterminated         Reason = "unterminated"
	ReasonTrailingData         Reason = "trailing_data"
	ReasonTopLevelNotContainer Reason = "top_level_not_container"
)

// ParseError is returned by the request-line parser, the header parser,
// the cookie parser, and the JSON parser. ByteOffset points at or before
// the first invalid byte.
type ParseError struct {
	Reason     Reason
	ByteOffset int
	Detail     string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse error at byte %d: %s", e.ByteOffset, e.Reason)
	}
	return fmt.Sprintf("parse error at byte %d: %s: %s", e.ByteOffset, e.Reason, e.Detail)
}

// Is lets callers write errors.Is(err, &ParseError{Reason: ReasonMalformedRequest})
// to check the reason without caring about offset/detail.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return true
	}
	return t.Reason == e.Reason
}

// NewParseError builds a ParseError with the given reason and offset.
func NewParseError(reason Reason, offset int, detail string) *ParseError {
	return &ParseError{Reason: reason, ByteOffset: offset, Detail: detail}
}
