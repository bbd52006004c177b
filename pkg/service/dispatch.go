package service

import (
	"context"
	"maps"
	"net/http"

	"github.com/tansive/sdkcore/internal/common/logtrace"
	"github.com/tansive/sdkcore/pkg/transport"
)

// NewRequest pairs opts with a snapshot of the service's current defaults.
func (s *BaseService) NewRequest(opts transport.RequestOptions) *transport.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	headers := make(http.Header, len(s.options.Headers))
	for k, v := range s.options.Headers {
		headers.Set(k, v)
	}
	return &transport.Request{
		Options: opts,
		DefaultOptions: transport.DefaultOptions{
			ServiceURL:            s.options.ServiceURL,
			Headers:               headers,
			QS:                    maps.Clone(s.options.QS),
			EnableGzipCompression: s.options.EnableGzipCompression,
			EnableRetries:         s.options.EnableRetries,
			MaxRetries:            s.options.MaxRetries,
			RetryInterval:         s.options.RetryInterval,
		},
	}
}

// CreateRequest authenticates req and then sends it. A request without a service URL
// fails before either step runs. If authentication fails the request is not sent and the
// authenticator's error is returned unchanged; failures are not retried here.
func (s *BaseService) CreateRequest(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if req == nil || req.DefaultOptions.ServiceURL == "" {
		return nil, ErrMissingServiceURL.Msg("the service URL is required; set it with SetServiceURL or the ServiceURL option")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.RLock()
	auth, t := s.options.Authenticator, s.transport
	s.mu.RUnlock()
	if missingAuthenticator(auth) {
		return nil, ErrMissingAuthenticator
	}

	ctx = logtrace.WithRequestID(ctx, logtrace.NewRequestID())
	logger := logtrace.Ctx(ctx)

	if req.DefaultOptions.Headers == nil {
		req.DefaultOptions.Headers = http.Header{}
	}
	if err := auth.Authenticate(ctx, req.DefaultOptions.Headers); err != nil {
		logger.Debug().Err(err).Str("auth_type", auth.AuthenticationType()).Msg("authentication failed, request not sent")
		return nil, err
	}

	logger.Debug().Str("method", req.Options.Method).Str("url", req.Options.URL).Msg("sending request")
	return t.Send(ctx, req)
}
