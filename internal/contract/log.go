package contract

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Logs always go to w (stderr in the CLI)
// so that stdout stays reserved for command output and the MCP stdio transport.
func NewLogger(w io.Writer, level logrus.Level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	return logger
}

// DiscardLogger returns a logger that drops everything, for tests and library callers.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
