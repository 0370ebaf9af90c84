package normalize

import (
	"errors"
	"fmt"
)

// ErrInternal is wrapped by every InternalError.
var ErrInternal = errors.New("internal normalization fault")

// InternalError reports an unexpected fault inside one of the passes. It is
// never caused by malformed input.
type InternalError struct {
	Pass  string
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("normalize: %s pass: %v", e.Pass, e.Cause)
}

// Unwrap supports errors.Is(err, ErrInternal) and access to the cause.
func (e *InternalError) Unwrap() []error {
	return []error{ErrInternal, e.Cause}
}

func recovered(pass string, r any) *InternalError {
	if err, ok := r.(error); ok {
		return &InternalError{Pass: pass, Cause: err}
	}
	return &InternalError{Pass: pass, Cause: fmt.Errorf("%v", r)}
}
