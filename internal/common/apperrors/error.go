// Package apperrors provides template-style errors used across the SDK core. An error declared at
// package level acts as an error kind; errors derived from it with New, Msg or MsgErr keep matching
// that kind through errors.Is while carrying a more specific message.
package apperrors

// Error defines the interface for SDK core errors. It extends the standard error interface with
// derivation, wrapping and an optional HTTP status code. All methods return Error to support
// method chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a new error using current as template
	Msg(msg string) Error                  // derives an error with message and wraps original
	MsgErr(msg string, err ...error) Error // derives an error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	Prefix(string) Error                   // adds a prefix to the error message
	SetStatusCode(int) Error               // sets the HTTP status code carried by the error
	StatusCode() int                       // returns the current status code
	Kind() Error                           // returns the root template this error derives from
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}
