// Package logger builds the structured loggers shared across the rating
// service: the application logger every component writes to and the audit
// trail that records score submissions, replays and parameter changes.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared application logger. Production runs emit
// JSON lines for log aggregation; everywhere else keeps colored text so
// scoring events stay readable during development.
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.WithField("log_level", logLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
