// Package logger builds the service's zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the service name. The level comes from
// AIMALL_LOG_LEVEL and defaults to info.
func New(serviceName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("AIMALL_LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
