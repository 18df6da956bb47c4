package logging

import (
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

// New builds the root logger. Unknown levels fall back to info.
func New(name, level string, output io.Writer) hclog.Logger {
	parsed := hclog.LevelFromString(level)
	if parsed == hclog.NoLevel {
		parsed = hclog.Info
	}
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  parsed,
		Output: output,
	})
}

// OpenFile returns an append-only log file, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// OrNull keeps constructors usable without a configured logger.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
