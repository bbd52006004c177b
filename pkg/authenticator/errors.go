package authenticator

import "github.com/tansive/sdkcore/internal/common/apperrors"

// Error definitions for the package.
// All errors are derived from ErrAuthentication.
var (
	// ErrAuthentication is the base error for the package.
	ErrAuthentication = apperrors.New("authentication error")

	// ErrInvalidAuthenticator is returned when an authenticator is misconfigured.
	ErrInvalidAuthenticator = ErrAuthentication.New("invalid authenticator configuration")

	// ErrUnsupportedAuthType is returned by the factories for unknown auth types.
	ErrUnsupportedAuthType = ErrAuthentication.New("unsupported authentication type")

	// ErrTokenExpired is returned when a token read from disk has already expired.
	ErrTokenExpired = ErrAuthentication.New("token has expired")
)
