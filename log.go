package dataobj

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	loggerMu sync.RWMutex
	logger   = newLogger()
)

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "dataobj",
	})
}

// SetLogger replaces the package logger. A nil logger restores the default,
// which only reports warnings and errors.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newLogger()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the package logger.
func Logger() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
