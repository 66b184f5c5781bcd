// Package logging holds the small slog helpers shared by long-lived
// components. A nil *slog.Logger means logging is off.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace is below Debug; per-declaration detail uses it.
const LevelTrace = slog.Level(-8)

// Component derives a logger tagged with the component name.
func Component(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// Enabled reports whether logger would emit at level.
func Enabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}

// ParseLevel accepts trace, debug, info, warn, error and off.
func ParseLevel(s string) (slog.Level, bool, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return 0, false, nil
	case "trace":
		return LevelTrace, true, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	}
	return 0, false, fmt.Errorf("invalid log level %q (expected: off|trace|debug|info|warn|error)", s)
}

// New builds a text logger on w, or nil when level is "off".
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, on, err := ParseLevel(level)
	if err != nil || !on {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
