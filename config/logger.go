// SPDX-License-Identifier: MIT

package config

import (
	"io"
	"log/slog"
	"strings"
)

// InitLogger builds the process logger from LogLevel ("debug", "info",
// "warn", "error") and LogFormat ("json" or "text"), installs it with
// slog.SetDefault and returns it.
func (c *Config) InitLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
