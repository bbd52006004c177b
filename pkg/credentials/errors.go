package credentials

import "github.com/tansive/sdkcore/internal/common/apperrors"

// Error definitions for the package.
// All errors are derived from ErrCredentials.
var (
	// ErrCredentials is the base error for the package.
	ErrCredentials = apperrors.New("credentials error")

	// ErrCredentialsFileUnreadable is returned when a discovered credentials file
	// cannot be read or parsed. Absence of a file is never an error.
	ErrCredentialsFileUnreadable = ErrCredentials.New("unable to read credentials file")

	// ErrCRTokenFile is returned when a CR token cannot be obtained from its file.
	// Both a missing and an empty file derive from it.
	ErrCRTokenFile = ErrCredentials.New("unable to read CR token file")

	// ErrInvalidCredential is returned by Check for values wrapped in braces or quotes.
	ErrInvalidCredential = ErrCredentials.New("invalid credential value")

	// ErrInvalidVCAPServices is returned when VCAP_SERVICES is set but is not valid JSON.
	ErrInvalidVCAPServices = ErrCredentials.New("invalid VCAP_SERVICES")
)
