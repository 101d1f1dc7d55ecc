// Package errors holds the failures sysdash reports on the terminal before
// the dashboard starts or after it exits. Degraded samples never become one.
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Code classifies a reported failure.
type Code string

const (
	ErrConfig   Code = "CONFIG"
	ErrProvider Code = "PROVIDER"
	ErrTerminal Code = "TERMINAL"
)

// Exit statuses. Bad flags share cobra's usage status.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Error renders as
//
//	✗ <what failed> [CODE]
//
//	  <cause>
//
//	  <hint>
type Error struct {
	Code    Code
	Message string
	Hint    string
	Cause   error
}

func New(code Code, message, hint string) *Error {
	return &Error{Code: code, Message: message, Hint: hint}
}

// Wrap attaches a code, message and hint to cause.
func Wrap(cause error, code Code, message, hint string) *Error {
	return &Error{Code: code, Message: message, Hint: hint, Cause: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s [%s]\n", e.Message, e.Code)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  %s\n", e.Cause)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Hint)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err carries code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// ExitCode maps err to a process exit status: 0 for nil, ExitUsage for
// configuration problems and ExitFailure otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsCode(err, ErrConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Print writes err to w. Errors from flag parsing carry no trailing newline,
// so one is added; Error values already end in one.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}
