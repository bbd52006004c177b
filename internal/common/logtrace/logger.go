// Package logtrace provides logging and tracing utilities for the SDK core.
// It integrates with zerolog for structured logging and tags dispatches with request ids.
package logtrace

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevelEnvVar selects the global log level when InitLogger runs.
const LogLevelEnvVar = "SDKCORE_LOG_LEVEL"

// InitLogger initializes the global logger with Unix timestamp format.
// Output goes to stderr; the level is taken from SDKCORE_LOG_LEVEL and defaults to info.
func InitLogger() {
	InitLoggerWithWriter(os.Stderr)
}

// InitLoggerWithWriter is InitLogger with a caller-supplied sink.
func InitLoggerWithWriter(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	SetLevel(os.Getenv(LogLevelEnvVar))
}

// SetLevel sets the global log level. Unknown or empty values select info.
func SetLevel(level string) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}
