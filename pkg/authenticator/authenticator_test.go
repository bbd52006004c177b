package authenticator

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/sdkcore/pkg/credentials"
)

func TestNoAuth(t *testing.T) {
	a := NewNoAuthAuthenticator()
	headers := http.Header{}
	require.NoError(t, a.Authenticate(context.Background(), headers))
	assert.Empty(t, headers)
	assert.Equal(t, AuthTypeNoAuth, a.AuthenticationType())
}

func TestBasic(t *testing.T) {
	a, err := NewBasicAuthenticator("user", "pass")
	require.NoError(t, err)

	headers := http.Header{}
	require.NoError(t, a.Authenticate(context.Background(), headers))
	assert.Equal(t, "Basic dXNlcjpwYXNz", headers.Get("Authorization"))

	_, err = NewBasicAuthenticator("", "pass")
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)

	_, err = NewBasicAuthenticator("{user}", "pass")
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)
	assert.ErrorIs(t, err, credentials.ErrInvalidCredential)
}

func TestBearerToken(t *testing.T) {
	a, err := NewBearerTokenAuthenticator("tok")
	require.NoError(t, err)

	headers := http.Header{"X-Other": []string{"kept"}}
	require.NoError(t, a.Authenticate(context.Background(), headers))
	assert.Equal(t, "Bearer tok", headers.Get("Authorization"))
	assert.Equal(t, "kept", headers.Get("X-Other"))

	_, err = NewBearerTokenAuthenticator("")
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "compute-resource",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestCRToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cr-token")

	t.Run("opaque token", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("opaque"), 0o600))
		headers := http.Header{}
		require.NoError(t, NewCRTokenAuthenticator(path).Authenticate(context.Background(), headers))
		assert.Equal(t, "Bearer opaque", headers.Get("Authorization"))
	})

	t.Run("valid jwt", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))
		require.NoError(t, os.WriteFile(path, []byte(token), 0o600))
		headers := http.Header{}
		require.NoError(t, NewCRTokenAuthenticator(path).Authenticate(context.Background(), headers))
		assert.Equal(t, "Bearer "+token, headers.Get("Authorization"))
	})

	t.Run("expired jwt", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(signedToken(t, time.Now().Add(-time.Hour))), 0o600))
		headers := http.Header{}
		err := NewCRTokenAuthenticator(path).Authenticate(context.Background(), headers)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Empty(t, headers.Get("Authorization"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := NewCRTokenAuthenticator(filepath.Join(dir, "nope")).Authenticate(context.Background(), http.Header{})
		assert.ErrorIs(t, err, credentials.ErrCRTokenFile)
	})

	t.Run("default filename", func(t *testing.T) {
		assert.Equal(t, DefaultCRTokenFilename, NewCRTokenAuthenticator("").CRTokenFilename)
	})
}

func TestNewFromProperties(t *testing.T) {
	tests := []struct {
		name     string
		props    map[string]string
		authType string
		wantErr  error
	}{
		{
			name:     "no auth",
			props:    map[string]string{"authType": "noauth"},
			authType: AuthTypeNoAuth,
		},
		{
			name:     "basic",
			props:    map[string]string{"authType": "BASIC", "username": "u", "password": "p"},
			authType: AuthTypeBasic,
		},
		{
			name:     "bearer",
			props:    map[string]string{"authType": "bearerToken", "bearerToken": "t"},
			authType: AuthTypeBearerToken,
		},
		{
			name:     "container",
			props:    map[string]string{"authType": "container", "crTokenFilename": "/tmp/x"},
			authType: AuthTypeCRToken,
		},
		{
			name:    "basic without password",
			props:   map[string]string{"authType": "basic", "username": "u"},
			wantErr: ErrInvalidAuthenticator,
		},
		{
			name:    "missing auth type",
			props:   map[string]string{},
			wantErr: ErrUnsupportedAuthType,
		},
		{
			name:    "unknown auth type",
			props:   map[string]string{"authType": "iam"},
			wantErr: ErrUnsupportedAuthType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewFromProperties(tt.props)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authType, a.AuthenticationType())
		})
	}
}

func TestGetAuthenticatorFromEnvironment(t *testing.T) {
	t.Setenv(credentials.CredentialsFileEnvVar, filepath.Join(t.TempDir(), "missing"))
	chdirForTest(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MY_SERVICE_AUTH_TYPE", "bearerToken")
	t.Setenv("MY_SERVICE_BEARER_TOKEN", "env-token")

	a, err := GetAuthenticatorFromEnvironment("my-service")
	require.NoError(t, err)
	headers := http.Header{}
	require.NoError(t, a.Authenticate(context.Background(), headers))
	assert.Equal(t, "Bearer env-token", headers.Get("Authorization"))
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
