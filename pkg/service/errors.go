package service

import "github.com/tansive/sdkcore/internal/common/apperrors"

// Error definitions for the package.
// All errors are derived from ErrService.
var (
	// ErrService is the base error for the package.
	ErrService = apperrors.New("service error")

	// ErrConfiguration is the kind of every fault raised while building or configuring a service.
	ErrConfiguration = ErrService.New("service configuration error")

	// ErrMissingAuthenticator is returned when a service is created without an authenticator.
	ErrMissingAuthenticator = ErrConfiguration.New("authenticator must be set")

	// ErrMissingServiceName is returned by ConfigureService when no name is given.
	ErrMissingServiceName = ErrConfiguration.New("service name is required to configure the service")

	// ErrInvalidOptions is returned when options fail the credential-sanity or field checks.
	ErrInvalidOptions = ErrConfiguration.New("invalid service options")

	// ErrInvalidExternalConfig is returned when an external property has an unusable value.
	ErrInvalidExternalConfig = ErrConfiguration.New("invalid external service configuration")

	// ErrOptionsFile is returned when an options file cannot be read or parsed.
	ErrOptionsFile = ErrConfiguration.New("unable to load options file")

	// ErrMissingServiceURL is returned by CreateRequest when the request carries no service URL.
	ErrMissingServiceURL = ErrService.New("the service URL is required")
)
