package main

import (
	"fmt"
	"log/slog"
	"os"
)

type rootCmdConfig struct {
	Verbose bool
	logger  *slog.Logger
}

// Logger returns the logger for the command. It writes text records to
// STDERR, down to debug level when the verbose flag is set and only
// warnings and errors otherwise.
func (rcc *rootCmdConfig) Logger() *slog.Logger {
	if rcc.logger == nil {
		level := slog.LevelWarn
		if rcc.Verbose {
			level = slog.LevelDebug
		}
		rcc.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return rcc.logger
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.Logger().Info(fmt.Sprintf(format, a...))
}
