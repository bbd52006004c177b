package authenticator

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/tansive/sdkcore/pkg/credentials"
)

// BasicAuthenticator sends a username and password as HTTP basic authentication.
type BasicAuthenticator struct {
	Username string
	Password string
}

// NewBasicAuthenticator returns a validated basic authenticator.
func NewBasicAuthenticator(username, password string) (*BasicAuthenticator, error) {
	a := &BasicAuthenticator{Username: username, Password: password}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *BasicAuthenticator) AuthenticationType() string {
	return AuthTypeBasic
}

// Validate requires both fields and rejects values wrapped in braces or quotes.
func (a *BasicAuthenticator) Validate() error {
	if a.Username == "" || a.Password == "" {
		return ErrInvalidAuthenticator.Msg("username and password are required for basic authentication")
	}
	if err := credentials.Check(map[string]string{"username": a.Username, "password": a.Password}); err != nil {
		return ErrInvalidAuthenticator.Err(err)
	}
	return nil
}

func (a *BasicAuthenticator) Authenticate(_ context.Context, headers http.Header) error {
	auth := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	headers.Set("Authorization", "Basic "+auth)
	return nil
}
