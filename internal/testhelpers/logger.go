package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/fitplan/internal/logging"
)

// NewLogger creates a new debug level text logger with the given log sink such as testhelpers.NewWriter.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.New(logSink, slog.LevelDebug, logging.FormatText, nil)
}
