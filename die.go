package main

import (
	"log/slog"
	"os"
)

// die reports an unrecoverable condition and exits with status 1.
func die(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
