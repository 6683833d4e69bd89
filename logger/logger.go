package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger from a configured level name.
// Unknown names fall back to info, matching the old behavior.
func Init(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		logrus.Warnf("Unknown log level '%s', defaulting to info", level)
		return logrus.InfoLevel
	}
}
