package authenticator

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tansive/sdkcore/pkg/credentials"
)

// DefaultCRTokenFilename is where container platforms mount the compute resource token.
const DefaultCRTokenFilename = "/var/run/secrets/tokens/vault-token"

// CRTokenAuthenticator reads a compute resource token from a file on every request and
// sends it as a bearer token. The file is re-read each time because the platform rotates it.
type CRTokenAuthenticator struct {
	CRTokenFilename string

	now func() time.Time
}

// NewCRTokenAuthenticator returns an authenticator reading from filename, or from
// DefaultCRTokenFilename when filename is empty.
func NewCRTokenAuthenticator(filename string) *CRTokenAuthenticator {
	if filename == "" {
		filename = DefaultCRTokenFilename
	}
	return &CRTokenAuthenticator{CRTokenFilename: filename}
}

func (a *CRTokenAuthenticator) AuthenticationType() string {
	return AuthTypeCRToken
}

func (a *CRTokenAuthenticator) Validate() error {
	if a.CRTokenFilename == "" {
		return ErrInvalidAuthenticator.Msg("CR token filename is required")
	}
	return nil
}

// Authenticate reads the token and attaches it. A token that parses as a JWT with an
// exp claim in the past is rejected; opaque tokens are sent as they are.
func (a *CRTokenAuthenticator) Authenticate(_ context.Context, headers http.Header) error {
	token, err := credentials.ReadCRTokenFile(a.CRTokenFilename)
	if err != nil {
		return err
	}
	if err := a.checkExpiry(token); err != nil {
		return err
	}
	headers.Set("Authorization", "Bearer "+token)
	return nil
}

func (a *CRTokenAuthenticator) checkExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	if now().After(exp.Time) {
		return ErrTokenExpired.Msg("CR token in " + a.CRTokenFilename + " expired at " + exp.Time.UTC().Format(time.RFC3339))
	}
	return nil
}
