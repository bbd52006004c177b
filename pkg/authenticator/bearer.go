package authenticator

import (
	"context"
	"net/http"
)

// BearerTokenAuthenticator sends a caller-managed bearer token.
// Obtaining and refreshing the token is the caller's concern.
type BearerTokenAuthenticator struct {
	BearerToken string
}

// NewBearerTokenAuthenticator returns a validated bearer token authenticator.
func NewBearerTokenAuthenticator(token string) (*BearerTokenAuthenticator, error) {
	a := &BearerTokenAuthenticator{BearerToken: token}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *BearerTokenAuthenticator) AuthenticationType() string {
	return AuthTypeBearerToken
}

func (a *BearerTokenAuthenticator) Validate() error {
	if a.BearerToken == "" {
		return ErrInvalidAuthenticator.Msg("bearer token is required")
	}
	return nil
}

func (a *BearerTokenAuthenticator) Authenticate(_ context.Context, headers http.Header) error {
	headers.Set("Authorization", "Bearer "+a.BearerToken)
	return nil
}
