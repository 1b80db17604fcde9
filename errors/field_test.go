package errors

import "testing"

func TestFieldNilError(t *testing.T) {
	if err := Field("Name", nil, "whatever"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Sender", ErrEmpty, "missing sender"),
		Field("Amount", ErrAmount, "must be positive"),
		Field("Deadline", ErrInput, "out of range"),
	)

	if errs := FieldErrors(err, "Amount"); len(errs) != 1 {
		t.Fatalf("want one Amount error, got %d", len(errs))
	} else if !ErrAmount.Is(errs[0]) {
		t.Fatalf("unexpected error: %+v", errs[0])
	}

	if errs := FieldErrors(err, "Memo"); len(errs) != 0 {
		t.Fatalf("want no Memo errors, got %d", len(errs))
	}
}

func TestAppendFieldKeepsCode(t *testing.T) {
	err := AppendField(nil, "Deadline", ErrInput)
	c, ok := err.(interface{ Code() uint32 })
	if !ok {
		t.Fatal("no code support")
	}
	if got, want := c.Code(), ErrInput.Code(); got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}
