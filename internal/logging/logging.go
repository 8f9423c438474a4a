// Package logging builds the zerolog logger used by every command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string `yaml:"level"`

	// Format is the output format (json, console, auto)
	Format string `yaml:"format"`

	// Output is where to write logs (stderr, stdout, discard, or a file path)
	Output string `yaml:"output"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "auto",
		Output: "stderr",
	}
}

// New creates a logger from configuration. The returned closer releases a
// log file if one was opened; it is never nil.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	level := ParseLevel(cfg.Level)
	output, closer := openOutput(cfg.Output)

	logger := zerolog.New(formatWriter(output, cfg.Format)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger, closer
}

// ParseLevel parses a log level string, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		return l
	}
	return zerolog.InfoLevel
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openOutput resolves the output destination.
func openOutput(output string) (io.Writer, io.Closer) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nopCloser{}
	case "stdout":
		return os.Stdout, nopCloser{}
	case "discard", "none":
		return io.Discard, nopCloser{}
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// Fall back to stderr
		return os.Stderr, nopCloser{}
	}
	return file, file
}

// formatWriter wraps output in a console writer when asked to, or when
// "auto" and output is a terminal.
func formatWriter(output io.Writer, format string) io.Writer {
	format = strings.ToLower(format)
	if format == "auto" || format == "" {
		format = "json"
		if f, ok := output.(*os.File); ok {
			if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				format = "console"
			}
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}
	return output
}
