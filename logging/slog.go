// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"log/slog"

	"github.com/choria-io/repack/model"
)

var _ model.Logger = (*SlogLogger)(nil)

// SlogLogger adapts a slog.Logger to model.Logger
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger wraps log, a nil log uses slog.Default()
func NewSlogLogger(log *slog.Logger) *SlogLogger {
	if log == nil {
		log = slog.Default()
	}

	return &SlogLogger{log: log}
}

// Component creates a child of log tagged with the component that produces its messages
func Component(log model.Logger, component string) model.Logger {
	return log.With("component", component)
}

// Slog is the underlying slog.Logger
func (s *SlogLogger) Slog() *slog.Logger {
	return s.log
}

// Enabled reports whether messages at level will be written
func (s *SlogLogger) Enabled(level slog.Level) bool {
	return s.log.Enabled(context.Background(), level)
}

func (s *SlogLogger) logAt(level slog.Level, msg string, args []any) {
	if !s.Enabled(level) {
		return
	}

	s.log.Log(context.Background(), level, msg, args...)
}

func (s *SlogLogger) Debug(msg string, args ...any) { s.logAt(slog.LevelDebug, msg, args) }
func (s *SlogLogger) Info(msg string, args ...any)  { s.logAt(slog.LevelInfo, msg, args) }
func (s *SlogLogger) Warn(msg string, args ...any)  { s.logAt(slog.LevelWarn, msg, args) }
func (s *SlogLogger) Error(msg string, args ...any) { s.logAt(slog.LevelError, msg, args) }

func (s *SlogLogger) With(args ...any) model.Logger {
	return &SlogLogger{log: s.log.With(args...)}
}
