package boxes

import (
	"github.com/lockbox-io/lockbox/errors"
)

// Error codes 1000-1099 are reserved for this package. The codes are part
// of the public contract, callers dispatch on them to tell "never existed
// or already used" apart from "wrong timing".
var (
	// ErrBadDeadline is returned when a box lifetime is outside of the
	// allowed 1 to 365 days range.
	ErrBadDeadline = errors.Register(1000, "bad deadline")

	// ErrUnknownBox is returned when a box does not exist or was
	// already released or swept.
	ErrUnknownBox = errors.Register(1001, "unknown box")

	// ErrTooLate is returned when a release is attempted at or after
	// the deadline.
	ErrTooLate = errors.Register(1002, "too late")

	// ErrNotExpired is returned when a sweep is attempted before the
	// deadline.
	ErrNotExpired = errors.Register(1003, "not expired")

	// ErrNoFunds is returned when a box is created with a zero amount.
	ErrNoFunds = errors.Register(1004, "no funds")

	// ErrInvalidAccount is returned when a supplied address does not
	// match its expected derivation.
	ErrInvalidAccount = errors.Register(1005, "invalid account")
)
