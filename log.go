package d3xx

import (
	"log/slog"
	"sync"
)

var (
	logMu  sync.RWMutex
	logger = slog.Default()
)

// SetLogger replaces the logger used for diagnostics that have
// no error return to travel on, such as panics caught at the
// notification boundary. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

func log() *slog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
