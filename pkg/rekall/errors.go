package rekall

import "fmt"

// Sentinel errors returned by the interval algebra. Typed errors below wrap
// these so callers can match with errors.Is.
var (
	// ErrEmptyFold is returned by Reduce on an empty set.
	ErrEmptyFold = fmt.Errorf("fold over empty interval set without an initial value")

	// ErrUnsupportedAxis is returned when an axis is not carried by a Bounds type.
	ErrUnsupportedAxis = fmt.Errorf("unsupported axis")

	// ErrIncompatibleOther is returned by Minus when the subtracted set does not
	// span the full extent of every non-subtracted axis.
	ErrIncompatibleOther = fmt.Errorf("subtracted interval does not cover the full extent of a non-subtracted axis")

	// ErrInvalidPattern is returned by Match for malformed pattern entries.
	ErrInvalidPattern = fmt.Errorf("invalid pattern")
)

// UnsupportedAxisError reports an axis that a concrete Bounds does not carry.
type UnsupportedAxisError struct {
	Axis   Axis
	Bounds string
}

func (e *UnsupportedAxisError) Error() string {
	return fmt.Sprintf("%v: %s does not carry axis %s", ErrUnsupportedAxis, e.Bounds, e.Axis)
}

func (e *UnsupportedAxisError) Unwrap() error { return ErrUnsupportedAxis }

// IncompatibleOtherError identifies the offending interval of the subtracted set.
type IncompatibleOtherError struct {
	Axis   Axis   // axis that is not fully covered
	Index  int    // position of the interval in the subtracted set
	Bounds string // bounds of the offending interval
}

func (e *IncompatibleOtherError) Error() string {
	return fmt.Sprintf("%v: interval %d %s on axis %s", ErrIncompatibleOther, e.Index, e.Bounds, e.Axis)
}

func (e *IncompatibleOtherError) Unwrap() error { return ErrIncompatibleOther }

// CheckAxis returns an *UnsupportedAxisError when b does not carry both
// coordinates of axis. A nil Bounds is accepted.
func CheckAxis(b Bounds, axis Axis) error {
	if b == nil {
		return nil
	}
	if !b.Supports(axis.Lo) || !b.Supports(axis.Hi) {
		return &UnsupportedAxisError{Axis: axis, Bounds: b.String()}
	}
	return nil
}
