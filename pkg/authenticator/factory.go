package authenticator

import (
	"strings"

	"github.com/tansive/sdkcore/pkg/credentials"
)

// NewFromProperties builds an authenticator from service properties as returned by
// credentials.ReadServiceProperties. The authType property selects the variant and is
// matched case-insensitively.
func NewFromProperties(props map[string]string) (Authenticator, error) {
	authType := props["authType"]
	switch strings.ToLower(authType) {
	case strings.ToLower(AuthTypeNoAuth):
		return NewNoAuthAuthenticator(), nil
	case strings.ToLower(AuthTypeBasic):
		return NewBasicAuthenticator(props["username"], props["password"])
	case strings.ToLower(AuthTypeBearerToken):
		return NewBearerTokenAuthenticator(props["bearerToken"])
	case strings.ToLower(AuthTypeCRToken), "container":
		a := NewCRTokenAuthenticator(props["crTokenFilename"])
		return a, a.Validate()
	case "":
		return nil, ErrUnsupportedAuthType.Msg("authType property is not set")
	}
	return nil, ErrUnsupportedAuthType.Msg("unsupported authType: " + authType)
}

// GetAuthenticatorFromEnvironment builds the authenticator configured for serviceName
// in the credentials file, the environment or VCAP_SERVICES.
func GetAuthenticatorFromEnvironment(serviceName string) (Authenticator, error) {
	props, err := credentials.ReadServiceProperties(serviceName)
	if err != nil {
		return nil, err
	}
	return NewFromProperties(props)
}
