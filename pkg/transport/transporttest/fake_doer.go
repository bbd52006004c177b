// Package transporttest provides test doubles for the transport package.
package transporttest

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/tansive/sdkcore/pkg/transport"
)

// Exchange is one queued outcome of a FakeDoer: a response or an error.
type Exchange struct {
	Response *http.Response
	Err      error
}

// RecordedRequest is a request captured by FakeDoer with its body already read.
type RecordedRequest struct {
	*http.Request
	Body []byte
}

// FakeDoer implements transport.HTTPDoer so callers can run tests without
// making outbound HTTP requests.
type FakeDoer struct {
	t         testing.TB
	mu        sync.Mutex
	exchanges []Exchange
	requests  []RecordedRequest
}

// NewFakeDoer returns a FakeDoer seeded with the responses that should be
// returned for each Do call.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.exchanges = append(f.exchanges, Exchange{Response: r})
	}
	return f
}

// Enqueue appends outcomes to the queue.
func (f *FakeDoer) Enqueue(exchanges ...Exchange) *FakeDoer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges = append(f.exchanges, exchanges...)
	return f
}

// Do records the request and returns the next queued outcome.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, RecordedRequest{Request: req, Body: body})
	if len(f.exchanges) == 0 {
		f.t.Fatalf("fake http client has no responses left for request %s %s", req.Method, req.URL.String())
	}
	ex := f.exchanges[0]
	f.exchanges = f.exchanges[1:]
	return ex.Response, ex.Err
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body string.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewJSONResponse is NewStringResponse with a JSON content type.
func NewJSONResponse(status int, body string) *http.Response {
	r := NewStringResponse(status, body)
	r.Header.Set("Content-Type", "application/json")
	r.Body = io.NopCloser(bytes.NewBufferString(body))
	return r
}

var _ transport.HTTPDoer = (*FakeDoer)(nil)
