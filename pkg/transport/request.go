// Package transport sends authenticated requests described by the service core. It owns the
// HTTP mechanics the core leaves out: URL assembly, body encoding, multipart file parts,
// gzip compression, retries, TLS and cookie handling.
package transport

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RequestOptions describes one call of a generated operation.
type RequestOptions struct {
	Method     string            // HTTP method
	URL        string            // path relative to the service URL; may contain {param} placeholders
	PathParams map[string]string // values for the {param} placeholders of URL
	QS         map[string]string // per-call query parameters, applied after the defaults
	Headers    map[string]string // per-call headers, applied after the defaults
	Body       any               // []byte, string, io.Reader, or a value encoded as JSON
	FormData   map[string]any    // multipart fields; file values are built with fileparam
}

// DefaultOptions is the per-request snapshot of a service's normalized options.
// The authenticator receives Headers and may add to them.
type DefaultOptions struct {
	ServiceURL            string
	Headers               http.Header
	QS                    map[string]string
	EnableGzipCompression bool
	EnableRetries         bool
	MaxRetries            int
	RetryInterval         time.Duration
}

// Request pairs the per-call description with the service defaults.
type Request struct {
	Options        RequestOptions
	DefaultOptions DefaultOptions
}

// Response is a completed HTTP exchange with a 2xx or 3xx status.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// DecodeResult unmarshals the JSON response body into v.
func (r *Response) DecodeResult(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return ErrInvalidResponse.MsgErr("unable to decode response body", err)
	}
	return nil
}
