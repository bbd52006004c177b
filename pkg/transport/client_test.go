package transport_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/sdkcore/pkg/fileparam"
	"github.com/tansive/sdkcore/pkg/transport"
	"github.com/tansive/sdkcore/pkg/transport/transporttest"
)

func defaults(serviceURL string) transport.DefaultOptions {
	return transport.DefaultOptions{
		ServiceURL: serviceURL,
		Headers:    http.Header{"X-Default": []string{"d"}},
		QS:         map[string]string{"version": "2024-01-01"},
	}
}

func TestSendBuildsRequest(t *testing.T) {
	doer := transporttest.NewFakeDoer(t, transporttest.NewJSONResponse(http.StatusOK, `{"id":"abc"}`))
	client := transport.NewWithDoer(doer)

	resp, err := client.Send(context.Background(), &transport.Request{
		Options: transport.RequestOptions{
			Method:     "post",
			URL:        "/v1/things/{thing_id}/parts",
			PathParams: map[string]string{"thing_id": "a b/c"},
			QS:         map[string]string{"limit": "10", "version": "override"},
			Headers:    map[string]string{"X-Call": "c"},
			Body:       map[string]any{"name": "widget"},
		},
		DefaultOptions: defaults("https://api.example.com/base"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		ID string `json:"id"`
	}
	require.NoError(t, resp.DecodeResult(&result))
	assert.Equal(t, "abc", result.ID)

	reqs := doer.Requests()
	require.Len(t, reqs, 1)
	r := reqs[0]
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, "/base/v1/things/a%20b%2Fc/parts", r.URL.EscapedPath())
	assert.Equal(t, "10", r.URL.Query().Get("limit"))
	assert.Equal(t, "override", r.URL.Query().Get("version"))
	assert.Equal(t, "d", r.Header.Get("X-Default"))
	assert.Equal(t, "c", r.Header.Get("X-Call"))
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"widget"}`, string(r.Body))
}

func TestSendHTTPError(t *testing.T) {
	doer := transporttest.NewFakeDoer(t,
		transporttest.NewJSONResponse(http.StatusBadRequest, `{"errors":[{"message":"name is invalid"}]}`))
	client := transport.NewWithDoer(doer)

	_, err := client.Send(context.Background(), &transport.Request{
		Options:        transport.RequestOptions{Method: http.MethodGet, URL: "/v1/things"},
		DefaultOptions: defaults("https://api.example.com"),
	})
	var httpErr *transport.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "name is invalid", httpErr.Message)
	assert.Len(t, doer.Requests(), 1)

	doer = transporttest.NewFakeDoer(t, transporttest.NewStringResponse(http.StatusNotFound, "not json"))
	_, err = transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{
		DefaultOptions: defaults("https://api.example.com"),
	})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Not Found", httpErr.Message)
}

func TestSendRetries(t *testing.T) {
	t.Run("retries 5xx and transport errors until success", func(t *testing.T) {
		doer := transporttest.NewFakeDoer(t).Enqueue(
			transporttest.Exchange{Response: transporttest.NewStringResponse(http.StatusServiceUnavailable, "")},
			transporttest.Exchange{Err: errors.New("connection reset")},
			transporttest.Exchange{Response: transporttest.NewStringResponse(http.StatusOK, "ok")},
		)
		d := defaults("https://api.example.com")
		d.EnableRetries = true
		d.MaxRetries = 3
		d.RetryInterval = time.Millisecond

		resp, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{
			Options:        transport.RequestOptions{Method: http.MethodPut, Body: "payload"},
			DefaultOptions: d,
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.Body))

		reqs := doer.Requests()
		require.Len(t, reqs, 3)
		for _, r := range reqs {
			assert.Equal(t, "payload", string(r.Body))
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		doer := transporttest.NewFakeDoer(t,
			transporttest.NewStringResponse(http.StatusTooManyRequests, ""),
			transporttest.NewStringResponse(http.StatusTooManyRequests, ""),
		)
		d := defaults("https://api.example.com")
		d.EnableRetries = true
		d.MaxRetries = 1
		d.RetryInterval = time.Millisecond

		_, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{DefaultOptions: d})
		var httpErr *transport.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
		assert.Len(t, doer.Requests(), 2)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		doer := transporttest.NewFakeDoer(t, transporttest.NewStringResponse(http.StatusUnauthorized, ""))
		d := defaults("https://api.example.com")
		d.EnableRetries = true
		d.MaxRetries = 3
		d.RetryInterval = time.Millisecond

		_, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{DefaultOptions: d})
		require.Error(t, err)
		assert.Len(t, doer.Requests(), 1)
	})

	t.Run("no retries unless enabled", func(t *testing.T) {
		doer := transporttest.NewFakeDoer(t, transporttest.NewStringResponse(http.StatusBadGateway, ""))
		_, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{
			DefaultOptions: defaults("https://api.example.com"),
		})
		require.Error(t, err)
		assert.Len(t, doer.Requests(), 1)
	})
}

func TestSendGzip(t *testing.T) {
	doer := transporttest.NewFakeDoer(t, transporttest.NewStringResponse(http.StatusOK, ""))
	d := defaults("https://api.example.com")
	d.EnableGzipCompression = true

	_, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{
		Options:        transport.RequestOptions{Method: http.MethodPost, Body: []byte("compress me")},
		DefaultOptions: d,
	})
	require.NoError(t, err)

	r := doer.Requests()[0]
	assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(bytes.NewReader(r.Body))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "compress me", string(plain))
}

func TestSendMultipart(t *testing.T) {
	doer := transporttest.NewFakeDoer(t, transporttest.NewStringResponse(http.StatusCreated, ""))

	_, err := transport.NewWithDoer(doer).Send(context.Background(), &transport.Request{
		Options: transport.RequestOptions{
			Method: http.MethodPost,
			URL:    "/v1/upload",
			FormData: map[string]any{
				"file":        fileparam.FileParam{Data: []byte("col1,col2"), Filename: "data.csv", ContentType: "text/csv"},
				"description": "quarterly numbers",
				"count":       2,
				"skipped":     nil,
			},
		},
		DefaultOptions: defaults("https://api.example.com"),
	})
	require.NoError(t, err)

	r := doer.Requests()[0]
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(bytes.NewReader(r.Body), params["boundary"])
	form, err := mr.ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"quarterly numbers"}, form.Value["description"])
	assert.Equal(t, []string{"2"}, form.Value["count"])
	assert.NotContains(t, form.Value, "skipped")
	require.Len(t, form.File["file"], 1)
	fh := form.File["file"][0]
	assert.Equal(t, "data.csv", fh.Filename)
	assert.Equal(t, "text/csv", fh.Header.Get("Content-Type"))
}

func TestNewClientAgainstServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	}))
	defer srv.Close()

	client, err := transport.New(transport.Config{DisableSSLVerification: true, UseCookieJar: true})
	require.NoError(t, err)
	require.NotNil(t, client.HTTPClient().Jar)

	resp, err := client.Send(context.Background(), &transport.Request{
		Options:        transport.RequestOptions{Method: http.MethodGet, URL: "v1/ping"},
		DefaultOptions: transport.DefaultOptions{ServiceURL: srv.URL + "/"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/v1/ping"}`, string(resp.Body))

	strict, err := transport.New(transport.Config{})
	require.NoError(t, err)
	_, err = strict.Send(context.Background(), &transport.Request{
		DefaultOptions: transport.DefaultOptions{ServiceURL: srv.URL},
	})
	assert.ErrorIs(t, err, transport.ErrRequestFailed)
}
