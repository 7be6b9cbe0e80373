package logging

import (
	"log/slog"
	"os"
)

// Setup installs a plain JSON logger on stdout. It covers startup, before
// the database is connected; cmd/server later swaps the default for a
// fanout that adds the audit sink.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
