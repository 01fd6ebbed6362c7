package utilities

import (
	"time"

	"gorm.io/gorm/logger"
)

// gormWriter sends gorm's output to one of our log levels.
type gormWriter struct {
	logf func(format string, v ...interface{})
}

func (w gormWriter) Printf(format string, v ...interface{}) {
	w.logf(format, v...)
}

// NewGormLogger routes gorm through the rotating log files. With debug set
// every statement is traced at DEBUG; otherwise only slow queries and
// errors are written, at WARNING. Missing records are never logged.
func NewGormLogger(debug bool) logger.Interface {
	if debug {
		return newGormLogger(Debug, logger.Info)
	}
	return newGormLogger(Warn, logger.Warn)
}

func newGormLogger(logf func(string, ...interface{}), level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{logf: logf}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
