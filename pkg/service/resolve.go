package service

import (
	"maps"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/tansive/sdkcore/pkg/authenticator"
	"github.com/tansive/sdkcore/pkg/credentials"
)

// StripTrailingSlash removes every trailing "/" from url.
func StripTrailingSlash(url string) string {
	return strings.TrimRight(url, "/")
}

// Resolve merges user options over defaults and normalizes the result. external, when not
// nil, holds service properties (see ConfigureService) that overwrite the merged values.
// The resolved options are checked in order: the service URL must pass the credential
// sanity check, numeric fields must validate, and an authenticator must be present.
func Resolve(defaults Defaults, user Options, external map[string]string) (Options, error) {
	opts := Options{
		ServiceURL: defaults.ServiceURL,
		Headers:    maps.Clone(defaults.Headers),
		QS:         maps.Clone(defaults.QS),
	}
	if opts.QS == nil {
		opts.QS = map[string]string{}
	}

	overlay(&opts, user)

	opts.URL = ""
	opts.ServiceURL = StripTrailingSlash(opts.ServiceURL)
	opts.DisableSSLVerification = user.DisableSSLVerification

	if external != nil {
		if err := applyExternal(&opts, external); err != nil {
			return Options{}, err
		}
	}

	if err := credentials.Check(map[string]string{"serviceUrl": opts.ServiceURL}); err != nil {
		return Options{}, ErrInvalidOptions.MsgErr(err.Error(), err)
	}
	if err := V().Struct(opts); err != nil {
		return Options{}, ErrInvalidOptions.MsgErr("invalid service options: "+err.Error(), err)
	}
	if missingAuthenticator(opts.Authenticator) {
		return Options{}, ErrMissingAuthenticator
	}
	return opts, nil
}

// missingAuthenticator reports whether a is nil or an interface holding a nil pointer.
func missingAuthenticator(a authenticator.Authenticator) bool {
	if a == nil {
		return true
	}
	switch rv := reflect.ValueOf(a); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// overlay copies every field set in src onto dst. Maps are merged key by key.
func overlay(dst *Options, src Options) {
	if src.Authenticator != nil {
		dst.Authenticator = src.Authenticator
	}
	serviceURL := src.ServiceURL
	if serviceURL == "" {
		serviceURL = src.URL
	}
	if serviceURL != "" {
		dst.ServiceURL = serviceURL
	}
	if src.Version != "" {
		dst.Version = src.Version
	}
	dst.Headers = mergeMap(dst.Headers, src.Headers)
	dst.QS = mergeMap(dst.QS, src.QS)
	dst.Extensions = mergeMap(dst.Extensions, src.Extensions)

	if src.Jar != nil {
		dst.Jar = src.Jar
	}
	if src.UseCookieJar {
		dst.UseCookieJar = true
	}
	if src.EnableGzipCompression {
		dst.EnableGzipCompression = true
	}
	if src.EnableRetries {
		dst.EnableRetries = true
	}
	if src.MaxRetries != 0 {
		dst.MaxRetries = src.MaxRetries
	}
	if src.RetryInterval != 0 {
		dst.RetryInterval = src.RetryInterval
	}
	if src.Transport != nil {
		dst.Transport = src.Transport
	}
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// externalConfig lists the service properties that overwrite options. Only properties
// present in the source are applied.
type externalConfig struct {
	URL           *string `mapstructure:"url"`
	DisableSSL    *string `mapstructure:"disableSsl"`
	EnableGzip    *string `mapstructure:"enableGzip"`
	EnableRetries *string `mapstructure:"enableRetries"`
	MaxRetries    *int    `mapstructure:"maxRetries"`
	RetryInterval *int    `mapstructure:"retryInterval"`
}

// applyExternal overwrites opts with the recognized properties in props. Boolean
// properties are true only for the string "true"; retryInterval is in seconds. An empty
// url carries no configuration and is ignored.
func applyExternal(opts *Options, props map[string]string) error {
	var ext externalConfig
	if err := mapstructure.WeakDecode(props, &ext); err != nil {
		return ErrInvalidExternalConfig.MsgErr("unable to decode service properties: "+err.Error(), err)
	}

	if ext.URL != nil && *ext.URL != "" {
		opts.ServiceURL = StripTrailingSlash(*ext.URL)
	}
	if ext.DisableSSL != nil {
		opts.DisableSSLVerification = *ext.DisableSSL == "true"
	}
	if ext.EnableGzip != nil {
		opts.EnableGzipCompression = *ext.EnableGzip == "true"
	}
	if ext.EnableRetries != nil {
		opts.EnableRetries = *ext.EnableRetries == "true"
	}
	if ext.MaxRetries != nil {
		opts.MaxRetries = *ext.MaxRetries
	}
	if ext.RetryInterval != nil {
		opts.RetryInterval = time.Duration(*ext.RetryInterval) * time.Second
	}
	return nil
}
