// Process logging. One zerolog logger per supervisor, writing to the
// configured log file and mirrored to stderr.
package wlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Creates the supervisor logger writing to <logsPath>/<globalname>.log
func New(logsPath string, globalname string, level zerolog.Level) (logger zerolog.Logger, err error) {
	err = os.MkdirAll(logsPath, 0o755)
	if err != nil {
		return
	}

	logFile, err := os.OpenFile(filepath.Join(logsPath, globalname+".log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}

	sink := io.MultiWriter(logFile, os.Stderr)
	logger = zerolog.New(sink).Level(level).With().
		Timestamp().
		Str("source", globalname).
		Logger()
	return
}

// Creates a discard logger for tests and optional components
func Nop() (logger zerolog.Logger) {
	logger = zerolog.Nop()
	return
}

// Maps a config log_level string onto a zerolog level (default info)
func ParseLevel(name string) (level zerolog.Level) {
	switch strings.ToLower(name) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	return
}
