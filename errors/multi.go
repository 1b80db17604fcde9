package errors

import (
	"strings"
)

// Append returns an error that represents all of provided errors. Nil values
// are ignored. If given collection of errors contains only nil values then
// nil is returned.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiError); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// multiError represents a group of errors. It is a flat structure and must
// not contain another multiError instance.
type multiError []error

func (errs multiError) Error() string {
	switch len(errs) {
	case 0:
		return "<nil>"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack implements the unpacker interface and returns all errors that this
// instance is clubbing together.
func (errs multiError) Unpack() []error {
	return errs
}

// Code returns the code of the first contained error, because a fail-fast
// processing means that error is the one that interrupted the flow.
func (errs multiError) Code() uint32 {
	if len(errs) == 0 {
		return 1
	}
	if c, ok := errs[0].(coder); ok {
		return c.Code()
	}
	return 1
}

// unpacker is implemented by errors that club together many errors.
type unpacker interface {
	Unpack() []error
}
