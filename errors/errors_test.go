package errors

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same error": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped instance of the same error": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "gone"),
			wantMatch: true,
		},
		"deeply wrapped": {
			kind:      ErrState,
			err:       Wrap(Wrap(ErrState, "inner"), "outer"),
			wantMatch: true,
		},
		"different error": {
			kind:      ErrNotFound,
			err:       ErrUnauthorized,
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       fmt.Errorf("not found"),
			wantMatch: false,
		},
		"nil error against a kind": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
		"nil kind against nil error": {
			kind:      nil,
			err:       nil,
			wantMatch: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("want match=%v, got %v", tc.wantMatch, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "description"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrappedErrorCode(t *testing.T) {
	err := Wrap(ErrExpired, "deadline passed")
	c, ok := err.(interface{ Code() uint32 })
	if !ok {
		t.Fatal("wrapped error does not expose a code")
	}
	if got, want := c.Code(), ErrExpired.Code(); got != want {
		t.Fatalf("want code %d, got %d", want, got)
	}

	twice := Wrap(err, "outer layer")
	c, ok = twice.(interface{ Code() uint32 })
	if !ok {
		t.Fatal("wrapped error does not expose a code")
	}
	if got, want := c.Code(), ErrExpired.Code(); got != want {
		t.Fatalf("want code %d through two layers, got %d", want, got)
	}

	wrapped := Wrap(fmt.Errorf("stdlib"), "no code")
	c, ok = wrapped.(interface{ Code() uint32 })
	if !ok {
		t.Fatal("wrapped error does not expose a code")
	}
	if got := c.Code(); got != 1 {
		t.Fatalf("stdlib errors must map to the internal code, got %d", got)
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reusing an error code must panic")
		}
	}()
	Register(ErrNotFound.Code(), "conflicting")
}

func TestStackTraceAttachedOnce(t *testing.T) {
	inner := Wrap(ErrInput, "inner")
	outer := Wrap(inner, "outer")

	st, ok := outer.(interface{ StackTrace() pkgerrors.StackTrace })
	if !ok {
		t.Fatal("no stack trace support")
	}
	if st.StackTrace() == nil {
		t.Fatal("missing stack trace")
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("bang")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want a panic error, got %+v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}

	err := Append(nil, ErrNotFound, Wrap(ErrState, "bad"))
	u, ok := err.(interface{ Unpack() []error })
	if !ok {
		t.Fatalf("want a multi error, got %+v", err)
	}
	if n := len(u.Unpack()); n != 2 {
		t.Fatalf("want 2 errors, got %d", n)
	}
}
