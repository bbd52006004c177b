package transport

import (
	"net/http"

	"github.com/tansive/sdkcore/internal/common/apperrors"
	"github.com/tidwall/gjson"
)

var (
	// ErrTransport is the base error for the package.
	ErrTransport = apperrors.New("transport error")

	// ErrInvalidRequest is returned when a request description cannot be turned into an HTTP request.
	ErrInvalidRequest = ErrTransport.New("invalid request")

	// ErrRequestFailed is returned when the request could not be sent or its response read.
	ErrRequestFailed = ErrTransport.New("request failed")

	// ErrInvalidResponse is returned when a response body cannot be decoded.
	ErrInvalidResponse = ErrTransport.New("invalid response")
)

// HTTPError represents an error response from the service.
type HTTPError struct {
	StatusCode int         // HTTP status code of the error
	Message    string      // message extracted from the body, or the status text
	Headers    http.Header // response headers
	Body       []byte      // raw response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		(e.StatusCode >= 500 && e.StatusCode != http.StatusNotImplemented)
}

var errorMessagePaths = []string{"errors.0.message", "error", "message", "errorMessage"}

func newHTTPError(status int, headers http.Header, body []byte) *HTTPError {
	msg := ""
	if gjson.ValidBytes(body) {
		for _, p := range errorMessagePaths {
			if r := gjson.GetBytes(body, p); r.Type == gjson.String && r.String() != "" {
				msg = r.String()
				break
			}
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &HTTPError{
		StatusCode: status,
		Message:    msg,
		Headers:    headers,
		Body:       body,
	}
}
