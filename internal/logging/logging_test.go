package logging_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/idelchi/vault/internal/logging"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    logrus.Level
	}{
		{name: "default", want: logrus.InfoLevel},
		{name: "verbose", verbose: true, want: logrus.DebugLevel},
		{name: "quiet", quiet: true, want: logrus.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := logging.New(&buf, tc.verbose, tc.quiet)
			assert.Equal(t, tc.want, logger.GetLevel())

			logger.WithField("file", "a.txt").Warn("careful")
			assert.Contains(t, buf.String(), "careful")
			assert.Contains(t, buf.String(), "file=a.txt")
		})
	}
}
