// Package authenticator defines the capability every request authenticator provides
// and a few concrete variants. The service core depends only on the Authenticator interface.
package authenticator

import (
	"context"
	"net/http"
)

// Authentication types understood by the factories.
const (
	AuthTypeNoAuth      = "noAuth"
	AuthTypeBasic       = "basic"
	AuthTypeBearerToken = "bearerToken"
	AuthTypeCRToken     = "crToken"
)

// Authenticator attaches credentials to an outgoing request. Authenticate may mutate
// headers in place and is called once per dispatch, before the request is sent.
type Authenticator interface {
	Authenticate(ctx context.Context, headers http.Header) error
	AuthenticationType() string
	Validate() error
}

// Verify that the variants implement the Authenticator interface.
var (
	_ Authenticator = &NoAuthAuthenticator{}
	_ Authenticator = &BasicAuthenticator{}
	_ Authenticator = &BearerTokenAuthenticator{}
	_ Authenticator = &CRTokenAuthenticator{}
)

// NoAuthAuthenticator leaves requests untouched.
type NoAuthAuthenticator struct{}

// NewNoAuthAuthenticator returns an authenticator that does nothing.
func NewNoAuthAuthenticator() *NoAuthAuthenticator {
	return &NoAuthAuthenticator{}
}

func (*NoAuthAuthenticator) Authenticate(context.Context, http.Header) error { return nil }
func (*NoAuthAuthenticator) AuthenticationType() string                      { return AuthTypeNoAuth }
func (*NoAuthAuthenticator) Validate() error                                 { return nil }
