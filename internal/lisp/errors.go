package lisp

import (
	"errors"
	"fmt"
)

// Kind names a class of failure. It is the prefix of every error line the
// interactive loop prints.
type Kind string

const (
	ParseError      Kind = "ParseError"
	EvaluationError Kind = "EvaluationError"
	HostActionError Kind = "HostActionError"
	LifecycleError  Kind = "LifecycleError"
)

// Error is a failure with a kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. The message is prefixed with op when op is
// not empty.
func Wrap(kind Kind, op string, err error) *Error {
	msg := err.Error()
	if op != "" {
		msg = op + ": " + msg
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first kinded error in err's chain.
// Errors from other packages that implement ErrorKind() string count too.
func KindOf(err error) string {
	var kinded interface{ ErrorKind() string }
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	return "Error"
}

// ErrorKind implements the interface KindOf looks for.
func (e *Error) ErrorKind() string { return string(e.Kind) }
