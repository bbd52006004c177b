package service

import (
	"context"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/tansive/sdkcore/pkg/authenticator"
	"github.com/tansive/sdkcore/pkg/transport"
)

// Transport sends a request once it has been authenticated. *transport.Client is the
// default implementation.
type Transport interface {
	Send(ctx context.Context, req *transport.Request) (*transport.Response, error)
	HTTPClient() *http.Client
}

var _ Transport = (*transport.Client)(nil)

// Options configures a service. Zero values mean "not set" and leave the defaults in place.
type Options struct {
	// Authenticator is required. The service keeps a reference; it does not own it.
	Authenticator authenticator.Authenticator `mapstructure:"authenticator"`

	// ServiceURL is the base URL of the service. Trailing slashes are removed.
	ServiceURL string `mapstructure:"serviceUrl"`

	// URL is the legacy name of ServiceURL, used only when ServiceURL is empty.
	URL string `mapstructure:"url"`

	// Headers are sent with every request. They are merged key by key over the defaults.
	Headers map[string]string `mapstructure:"headers"`

	Version string `mapstructure:"version"`

	// DisableSSLVerification turns off TLS certificate checks. Only an explicit true disables them.
	DisableSSLVerification bool `mapstructure:"-"`

	// Jar is the cookie store handed to the default transport. UseCookieJar asks for an
	// in-memory store when Jar is nil.
	Jar          http.CookieJar `mapstructure:"-"`
	UseCookieJar bool           `mapstructure:"-"`

	EnableGzipCompression bool          `mapstructure:"enableGzipCompression"`
	EnableRetries         bool          `mapstructure:"enableRetries"`
	MaxRetries            int           `mapstructure:"maxRetries" validate:"gte=0"`
	RetryInterval         time.Duration `mapstructure:"retryInterval" validate:"gte=0"`

	// QS holds query parameters sent with every request.
	QS map[string]string `mapstructure:"qs"`

	// Transport replaces the default transport when set.
	Transport Transport `mapstructure:"-"`

	// Extensions keeps options this version does not know about, for generated services
	// that define their own.
	Extensions map[string]any `mapstructure:",remain"`
}

// Defaults are the per-service starting values that Options are merged over.
type Defaults struct {
	ServiceURL string
	Headers    map[string]string
	QS         map[string]string
}

// V returns the validator used for Options.
var V = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// OptionsFromMap decodes a loosely typed option bag, as produced by configuration files
// or other SDKs, into Options. disableSslVerification is honoured only when it holds the
// boolean true; jar may be an http.CookieJar or a boolean. Numeric retryInterval values
// are seconds. Unrecognized keys are kept in Extensions.
func OptionsFromMap(m map[string]any) (Options, error) {
	var opts Options

	rest := make(map[string]any, len(m))
	for k, v := range m {
		rest[k] = v
	}

	if v, ok := rest["disableSslVerification"]; ok {
		b, isBool := v.(bool)
		opts.DisableSSLVerification = isBool && b
		delete(rest, "disableSslVerification")
	}
	if v, ok := rest["jar"]; ok {
		switch j := v.(type) {
		case http.CookieJar:
			opts.Jar = j
		case bool:
			opts.UseCookieJar = j
		}
		delete(rest, "jar")
	}
	if v, ok := rest["transport"]; ok {
		if t, isTransport := v.(Transport); isTransport {
			opts.Transport = t
			delete(rest, "transport")
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &opts,
		DecodeHook: secondsToDurationHook,
	})
	if err != nil {
		return Options{}, ErrInvalidOptions.MsgErr("unable to create options decoder", err)
	}
	if err := decoder.Decode(rest); err != nil {
		return Options{}, ErrInvalidOptions.MsgErr("unable to decode options: "+err.Error(), err)
	}
	return opts, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook converts numbers, and strings holding numbers, to durations in seconds.
// Other strings are parsed with time.ParseDuration.
func secondsToDurationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(n * float64(time.Second)), nil
		}
		return time.ParseDuration(v)
	}
	return data, nil
}
