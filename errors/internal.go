package errors

import (
	"fmt"

	"github.com/google/uuid"
)

// InternalError wraps ErrInternal with a short diagnostic tag, so a
// 500 response can point an operator at the matching log line without
// the log line needing to repeat the whole failure detail.
type InternalError struct {
	Tag   string
	Cause error
}

// NewInternalError wraps cause with a freshly generated diagnostic
// tag. cause may be nil when the failure has no more specific
// underlying error to carry (e.g. a type assertion on registry data
// that should never fail).
func NewInternalError(cause error) *InternalError {
	return &InternalError{Tag: uuid.NewString()[:8], Cause: cause}
}

func (e *InternalError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("internal server error [%s]", e.Tag)
	}
	return fmt.Sprintf("internal server error [%s]: %s", e.Tag, e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// Is reports ErrInternal as a match so callers can keep writing
// errors.Is(err, coreerrors.ErrInternal) regardless of whether the
// error was constructed directly or via NewInternalError.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}
