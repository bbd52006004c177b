package apperrors

import (
	"errors"
	"strings"
)

// appError implements the apperrors.Error interface.
type appError struct {
	msg           string  // primary error message
	base          error   // template this error was derived from
	wrappedErrors []error // additional wrapped errors
	statuscode    int
	prefix        string
}

// Error returns the message, including the prefix if one is set.
func (e *appError) Error() string {
	if e.prefix != "" {
		return e.prefix + ": " + e.msg
	}
	return e.msg
}

// ErrorAll returns the message followed by the messages of all wrapped errors
// that are not part of the template chain.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		if errors.Is(e.base, err) {
			continue
		}
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the template error for errors.Is / errors.As.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns all wrapped errors in the order they were added.
func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

// Kind walks the template chain and returns the outermost package-level error.
func (e *appError) Kind() Error {
	cur := e
	for {
		next, ok := cur.base.(*appError)
		if !ok {
			return cur
		}
		cur = next
	}
}

// Msg derives an error with a new message. The original stays reachable through errors.Is.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		statuscode:    e.statuscode,
	}
}

// New derives a fresh error from the current one. Used to declare error kinds.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// MsgErr derives an error with a message and wraps additional errors.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// Err attaches additional errors while keeping the message and status code.
func (e *appError) Err(errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// Prefix returns a shallow copy with an updated prefix.
func (e *appError) Prefix(p string) Error {
	cp := *e
	cp.prefix = p
	return &cp
}

// SetStatusCode returns a shallow copy with an updated status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is reports whether target is the template chain or any wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level error kind with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// KindOf returns the root error kind of err, or nil if err is not an apperrors.Error.
func KindOf(err error) Error {
	var ae Error
	if !errors.As(err, &ae) {
		return nil
	}
	return ae.Kind()
}
