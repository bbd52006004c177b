// Package service is the base every generated service client embeds. It resolves the
// client's options from constructor input and external configuration, and dispatches
// requests through the authenticator and then the transport.
package service

import (
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/sdkcore/pkg/authenticator"
	"github.com/tansive/sdkcore/pkg/credentials"
	"github.com/tansive/sdkcore/pkg/transport"
)

const (
	// DefaultMaxRetries is used by EnableRetries when no positive count is given.
	DefaultMaxRetries = 4
	// DefaultRetryInterval is used by EnableRetries when no positive interval is given.
	DefaultRetryInterval = 30 * time.Second
)

// BaseService holds the normalized options of a service client. Options change only
// through the setters and ConfigureService; each request works on a snapshot.
type BaseService struct {
	mu            sync.RWMutex
	options       Options
	transport     Transport
	ownsTransport bool

	readProperties func(serviceName string) (map[string]string, error)
}

// NewBaseService resolves opts over defaults and creates the service. It fails when no
// authenticator is given or the options do not pass validation.
func NewBaseService(defaults Defaults, opts Options) (*BaseService, error) {
	resolved, err := Resolve(defaults, opts, nil)
	if err != nil {
		return nil, err
	}

	s := &BaseService{
		options:        resolved,
		readProperties: credentials.ReadServiceProperties,
	}
	if resolved.Transport != nil {
		s.transport = resolved.Transport
	} else {
		t, err := newDefaultTransport(resolved)
		if err != nil {
			return nil, err
		}
		s.transport = t
		s.ownsTransport = true
	}
	return s, nil
}

func newDefaultTransport(opts Options) (*transport.Client, error) {
	return transport.New(transport.Config{
		DisableSSLVerification: opts.DisableSSLVerification,
		Jar:                    opts.Jar,
		UseCookieJar:           opts.UseCookieJar,
	})
}

// GetAuthenticator returns the authenticator the service was created with.
func (s *BaseService) GetAuthenticator() authenticator.Authenticator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.Authenticator
}

// SetServiceURL replaces the service URL. An empty url is ignored.
func (s *BaseService) SetServiceURL(url string) error {
	if url == "" {
		return nil
	}
	if err := credentials.Check(map[string]string{"serviceUrl": url}); err != nil {
		return ErrInvalidOptions.MsgErr(err.Error(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.ServiceURL = StripTrailingSlash(url)
	return nil
}

func (s *BaseService) GetServiceURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.ServiceURL
}

// SetDefaultHeaders replaces the headers sent with every request.
func (s *BaseService) SetDefaultHeaders(headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.Headers = maps.Clone(headers)
}

func (s *BaseService) SetEnableGzipCompression(enable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.EnableGzipCompression = enable
}

func (s *BaseService) GetEnableGzipCompression() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.EnableGzipCompression
}

// GetHTTPClient exposes the *http.Client of the transport.
func (s *BaseService) GetHTTPClient() *http.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport.HTTPClient()
}

// EnableRetries turns on automatic retries of failed requests. Non-positive arguments
// select DefaultMaxRetries and DefaultRetryInterval.
func (s *BaseService) EnableRetries(maxRetries int, retryInterval time.Duration) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.EnableRetries = true
	s.options.MaxRetries = maxRetries
	s.options.RetryInterval = retryInterval
}

func (s *BaseService) DisableRetries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.EnableRetries = false
}

// Options returns a copy of the current normalized options.
func (s *BaseService) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o := s.options
	o.Headers = maps.Clone(o.Headers)
	o.QS = maps.Clone(o.QS)
	o.Extensions = maps.Clone(o.Extensions)
	return o
}

// ConfigureService reads the external properties of serviceName and overwrites the
// options they name: url, disableSsl, enableGzip, enableRetries, maxRetries and
// retryInterval. Options without a matching property are left as they are.
func (s *BaseService) ConfigureService(serviceName string) error {
	if serviceName == "" {
		return ErrMissingServiceName
	}

	props, err := s.readProperties(serviceName)
	if err != nil {
		return ErrConfiguration.MsgErr("unable to read properties for service "+serviceName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.options
	if err := applyExternal(&updated, props); err != nil {
		return err
	}
	if err := credentials.Check(map[string]string{"serviceUrl": updated.ServiceURL}); err != nil {
		return ErrInvalidOptions.MsgErr(err.Error(), err)
	}
	if err := V().Struct(updated); err != nil {
		return ErrInvalidOptions.MsgErr("invalid service options: "+err.Error(), err)
	}

	if s.ownsTransport && updated.DisableSSLVerification != s.options.DisableSSLVerification {
		t, err := newDefaultTransport(updated)
		if err != nil {
			return err
		}
		s.transport = t
	}
	s.options = updated

	log.Debug().Str("service", serviceName).Int("properties", len(props)).Msg("applied external service configuration")
	return nil
}
