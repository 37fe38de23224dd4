package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON output so the batch
// jobs can be diagnosed from aggregated logs alone.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
