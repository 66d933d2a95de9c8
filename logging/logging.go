// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package logging adapts slog and logrus to model.Logger
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SladkyCitron/slogcolor"
	"github.com/sirupsen/logrus"

	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/model"
)

const (
	// FormatAuto uses FormatColor on terminals and FormatText otherwise
	FormatAuto = ""
	// FormatText is the slog text format
	FormatText = "text"
	// FormatColor is human friendly colored output
	FormatColor = "color"
	// FormatJSON logs one JSON object per line
	FormatJSON = "json"
)

// Levels are the valid log levels
var Levels = []string{"debug", "info", "warn", "error"}

// Formats are the valid log formats
var Formats = []string{FormatText, FormatColor, FormatJSON}

// ParseLevel parses a log level name
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log level must be one of: %s", strings.Join(Levels, ", "))
	}
}

// ValidateFormat checks that format is a known log format
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatAuto, FormatText, FormatColor, FormatJSON:
		return nil
	default:
		return fmt.Errorf("log format must be one of: %s", strings.Join(Formats, ", "))
	}
}

// New creates a logger writing to w at level in format
func New(w io.Writer, level string, format string) (model.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	err = ValidateFormat(format)
	if err != nil {
		return nil, err
	}

	format = strings.ToLower(format)
	if format == FormatAuto {
		format = FormatText
		if iu.IsTerminal() {
			format = FormatColor
		}
	}

	switch format {
	case FormatJSON:
		log := logrus.New()
		log.SetOutput(w)
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrusLevel(lvl))

		return NewLogrusLogger(logrus.NewEntry(log)), nil

	case FormatColor:
		return NewSlogLogger(slog.New(slogcolor.NewHandler(w, &slogcolor.Options{Level: lvl}))), nil

	default:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	}
}

func logrusLevel(level slog.Level) logrus.Level {
	switch {
	case level <= slog.LevelDebug:
		return logrus.DebugLevel
	case level <= slog.LevelInfo:
		return logrus.InfoLevel
	case level <= slog.LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
