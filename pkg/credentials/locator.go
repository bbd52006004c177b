// Package credentials discovers and reads out-of-band configuration: the key=value
// credentials file, CR token files and service-scoped properties from the environment.
package credentials

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCredentialsFileName is the file name searched for in every location.
	DefaultCredentialsFileName = "ibm-credentials.env"

	// CredentialsFileEnvVar names a credentials file, or a directory containing one.
	CredentialsFileEnvVar = "IBM_CREDENTIALS_FILE"
)

// Record is a flat set of key/value pairs read from a credentials file.
// Keys are case-sensitive.
type Record map[string]string

// Locator finds the credentials file. The function fields default to the os package
// and exist so that discovery can be exercised without touching the real environment.
type Locator struct {
	LookupEnv   func(key string) (string, bool)
	Environ     func() []string
	Getwd       func() (string, error)
	UserHomeDir func() (string, error)
}

// NewLocator returns a Locator bound to the process environment.
func NewLocator() *Locator {
	return &Locator{
		LookupEnv:   os.LookupEnv,
		Environ:     os.Environ,
		Getwd:       os.Getwd,
		UserHomeDir: os.UserHomeDir,
	}
}

// FilePath returns the path of the credentials file that Locate would read, or
// an empty string when none of the locations has one. Resolution order:
// the file named by IBM_CREDENTIALS_FILE, the default file inside that path,
// the default file in the working directory, then in the home directory.
func (l *Locator) FilePath() string {
	if envPath, ok := l.LookupEnv(CredentialsFileEnvVar); ok && envPath != "" {
		if isFileOrSymlink(envPath) {
			return envPath
		}
		if p := filepath.Join(envPath, DefaultCredentialsFileName); fileExists(p) {
			return p
		}
	}
	if cwd, err := l.Getwd(); err == nil {
		if p := filepath.Join(cwd, DefaultCredentialsFileName); fileExists(p) {
			return p
		}
	}
	if home, err := l.UserHomeDir(); err == nil && home != "" {
		if p := filepath.Join(home, DefaultCredentialsFileName); fileExists(p) {
			return p
		}
	}
	return ""
}

// Locate reads the first credentials file found. When there is no file the result
// is an empty record and a nil error.
func (l *Locator) Locate() (Record, error) {
	path := l.FilePath()
	if path == "" {
		log.Info().Msg("no credentials file found, continuing without external credentials")
		return Record{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, ErrCredentialsFileUnreadable.MsgErr("unable to read credentials file "+path, err)
	}
	log.Debug().Str("path", path).Int("entries", len(values)).Msg("loaded credentials file")
	return Record(values), nil
}

// LocateCredentials reads the credentials file using the process environment.
func LocateCredentials() (Record, error) {
	return NewLocator().Locate()
}

func isFileOrSymlink(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular() || fi.Mode()&os.ModeSymlink != 0
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
