package internal

import (
	"github.com/sirupsen/logrus"
)

// Logger returns log, or the logrus standard logger if log is nil.
func Logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}

	return log
}
