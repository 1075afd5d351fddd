// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the structured logger used across the service.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

// ServiceName is attached to every entry.
const ServiceName = "web-search"

// New returns a JSON logger at the named level ("debug", "info", "warn",
// "error"); unknown names mean info.
func New(level string, out io.Writer) Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(ParseLevel(level))
	if out != nil {
		logger.SetOutput(out)
	}
	logger.AddHook(serviceHook{})
	return logger
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() Logger {
	return New("error", io.Discard)
}

// ParseLevel maps a level name to a logrus level.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = ServiceName
	}
	return nil
}
