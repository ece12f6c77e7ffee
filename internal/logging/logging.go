// Package logging builds the diagnostic logger shared by all commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing text records to w.
// verbose enables debug records; quiet keeps only warnings and errors.
func New(w io.Writer, verbose, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})

	switch {
	case verbose:
		logger.SetLevel(logrus.DebugLevel)
	case quiet:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}
