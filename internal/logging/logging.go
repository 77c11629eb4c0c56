package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger receives every diagnostic record. Commands replace it through
// Setup once flags are parsed; until then records go to stderr at info.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Setup points diagnostics at w, stderr when nil. Debug records appear only
// when verbose is set; jsonOutput selects slog's JSON handler over text.
func Setup(verbose, jsonOutput bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if jsonOutput {
		h = slog.NewJSONHandler(w, opts)
	}
	Logger = slog.New(h)
}

// StartRun tags every subsequent record with a fresh run id and returns it.
func StartRun() string {
	id := uuid.New().String()
	Logger = Logger.With("run", id)
	return id
}

// Debug records planner and engine decisions; hidden unless verbose.
func Debug(msg string, args ...any) { Logger.Debug(msg, args...) }

func Info(msg string, args ...any) { Logger.Info(msg, args...) }

func Warn(msg string, args ...any) { Logger.Warn(msg, args...) }
