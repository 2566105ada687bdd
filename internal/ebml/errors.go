package ebml

import (
	"errors"
	"fmt"
)

// NeedMoreError reports that the buffered prefix is too short to finish the
// current decoding step. Count is the minimum number of additional bytes that
// lets the step make progress; satisfying it may still surface a further
// NeedMoreError for the same step.
type NeedMoreError struct {
	Count int
}

func (e NeedMoreError) Error() string {
	return fmt.Sprintf("need more bytes: %d", e.Count)
}

func needMore(n int) error {
	return NeedMoreError{Count: n}
}

// AsNeedMore unwraps err as a NeedMoreError.
func AsNeedMore(err error) (NeedMoreError, bool) {
	var need NeedMoreError
	ok := errors.As(err, &need)
	return need, ok
}

// ErrNotEBML means the leading bytes are not an EBML document-type
// declaration at all.
var ErrNotEBML = errors.New("not an EBML document")

// MalformedError means a structurally required element is present but
// violates the format.
type MalformedError struct {
	Detail string
}

func (e MalformedError) Error() string {
	return "malformed container: " + e.Detail
}

func malformed(format string, args ...any) error {
	return MalformedError{Detail: fmt.Sprintf(format, args...)}
}
