package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tansive/sdkcore/internal/common/logtrace"
)

const (
	// DefaultRetryBaseDelay is the first backoff delay when retries are enabled.
	DefaultRetryBaseDelay = 1 * time.Second
	// DefaultMaxRetryInterval caps the backoff delay when no interval is configured.
	DefaultMaxRetryInterval = 30 * time.Second
)

// HTTPDoer captures the subset of *http.Client the transport relies on, so that
// tests can inject fakes instead of making network calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the underlying *http.Client is built.
type Config struct {
	DisableSSLVerification bool           // if true, skips TLS certificate validation
	Jar                    http.CookieJar // cookie store to use; takes precedence over UseCookieJar
	UseCookieJar           bool           // if true and Jar is nil, an in-memory jar is created
	Timeout                time.Duration  // overall request timeout, zero means none
}

// Client is the default transport collaborator of the service core.
type Client struct {
	doer       HTTPDoer
	httpClient *http.Client
}

// New creates a client with its own *http.Client built from cfg.
func New(cfg Config) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.DisableSSLVerification {
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	switch {
	case cfg.Jar != nil:
		httpClient.Jar = cfg.Jar
	case cfg.UseCookieJar:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, ErrTransport.MsgErr("unable to create cookie jar", err)
		}
		httpClient.Jar = jar
	}

	return &Client{doer: httpClient, httpClient: httpClient}, nil
}

// NewWithDoer creates a client that sends through doer. HTTPClient returns doer when
// it is an *http.Client and nil otherwise.
func NewWithDoer(doer HTTPDoer) *Client {
	hc, _ := doer.(*http.Client)
	return &Client{doer: doer, httpClient: hc}
}

// HTTPClient exposes the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

type preparedRequest struct {
	method  string
	url     string
	headers http.Header
	body    []byte
}

// Send builds the HTTP request described by req and executes it, retrying if the
// request enables it. Responses with a status of 400 or above are returned as *HTTPError.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	prepared, err := prepare(req)
	if err != nil {
		return nil, err
	}

	d := req.DefaultOptions
	attempts := uint(1)
	if d.EnableRetries && d.MaxRetries > 0 {
		attempts = uint(d.MaxRetries) + 1
	}
	maxDelay := d.RetryInterval
	if maxDelay <= 0 {
		maxDelay = DefaultMaxRetryInterval
	}
	baseDelay := min(DefaultRetryBaseDelay, maxDelay)

	var resp *Response
	attempt := 0
	err = retry.Do(func() error {
		attempt++
		r, err := c.do(ctx, prepared)
		if err != nil {
			logtrace.Ctx(ctx).Debug().Err(err).Int("attempt", attempt).Str("url", prepared.url).Msg("request attempt failed")
			return err
		}
		resp = r
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(baseDelay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func isRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrRequestFailed)
}

func (c *Client) do(ctx context.Context, p *preparedRequest) (*Response, error) {
	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return nil, ErrInvalidRequest.MsgErr("failed to create request", err)
	}
	httpReq.Header = p.headers.Clone()

	httpResp, err := c.doer.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ErrRequestFailed.MsgErr("request failed", ctxErr, err)
		}
		return nil, ErrRequestFailed.MsgErr(fmt.Sprintf("request failed: %v", err), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ErrRequestFailed.MsgErr("failed to read response body", err)
	}

	if httpResp.StatusCode >= 400 {
		return nil, newHTTPError(httpResp.StatusCode, httpResp.Header, respBody)
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func prepare(req *Request) (*preparedRequest, error) {
	o, d := req.Options, req.DefaultOptions

	method := strings.ToUpper(o.Method)
	if method == "" {
		method = http.MethodGet
	}

	u, err := buildURL(d.ServiceURL, o.URL, o.PathParams)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range d.QS {
		q.Set(k, v)
	}
	for k, v := range o.QS {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	headers := http.Header{}
	for k, vs := range d.Headers {
		headers[k] = append([]string(nil), vs...)
	}
	for k, v := range o.Headers {
		headers.Set(k, v)
	}

	var body []byte
	var contentType string
	if len(o.FormData) > 0 {
		body, contentType, err = encodeMultipart(o.FormData)
	} else {
		body, contentType, err = encodeBody(o.Body)
	}
	if err != nil {
		return nil, err
	}
	if contentType != "" && headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", contentType)
	}
	if headers.Get("Accept") == "" {
		headers.Set("Accept", "application/json")
	}

	if d.EnableGzipCompression && len(body) > 0 && headers.Get("Content-Encoding") == "" {
		body, err = gzipBody(body)
		if err != nil {
			return nil, err
		}
		headers.Set("Content-Encoding", "gzip")
	}

	return &preparedRequest{method: method, url: u.String(), headers: headers, body: body}, nil
}

var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

func buildURL(serviceURL, path string, pathParams map[string]string) (*url.URL, error) {
	path = pathParamPattern.ReplaceAllStringFunc(path, func(m string) string {
		if v, ok := pathParams[m[1:len(m)-1]]; ok {
			return url.PathEscape(v)
		}
		return m
	})
	full := strings.TrimRight(serviceURL, "/")
	if path != "" {
		full += "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(full)
	if err != nil {
		return nil, ErrInvalidRequest.MsgErr("invalid request URL "+full, err)
	}
	return u, nil
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", ErrInvalidRequest.MsgErr("unable to read request body", err)
		}
		return data, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", ErrInvalidRequest.MsgErr("unable to encode request body", err)
	}
	return data, "application/json", nil
}

func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, ErrInvalidRequest.MsgErr("unable to compress request body", err)
	}
	if err := zw.Close(); err != nil {
		return nil, ErrInvalidRequest.MsgErr("unable to compress request body", err)
	}
	return buf.Bytes(), nil
}
