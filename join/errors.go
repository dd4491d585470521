package join

import "github.com/pkg/errors"

var (
	ErrUnknownKind    = errors.New("unknown similarity join kind")
	ErrNegativeK      = errors.New("k must not be negative")
	ErrInvalidRange   = errors.New("invalid distance range")
	ErrAttributeArity = errors.New("left and right attribute lists differ")
	ErrNotPrepared    = errors.New("similarity join used before Prepare")
	ErrExhausted      = errors.New("similarity join has no staged result")
	ErrClosed         = errors.New("similarity join is closed")
	ErrPrepareFailed  = errors.New("similarity join prepare failed")
)

// PrepareError reports a failure while materializing the right-hand side or
// building its index. It matches both ErrPrepareFailed and its cause.
type PrepareError struct {
	Err error
}

func (e *PrepareError) Error() string {
	return ErrPrepareFailed.Error() + ": " + e.Err.Error()
}

func (e *PrepareError) Unwrap() error {
	return e.Err
}

func (e *PrepareError) Is(target error) bool {
	return target == ErrPrepareFailed
}
