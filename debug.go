package nprovide

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger directs the debug log of override changes and singleton
// creation to l.  A nil logger turns logging off.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named("nprovide"))
}

func log() *zap.Logger {
	return logger.Load()
}

func providerField(p Provider) zap.Field {
	return zap.Stringer("provider", p)
}
