package xlog

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap/zapcore"
)

var _ ants.Logger = (*AntsXLogger)(nil)

// AntsXLogger receives the pool's panic and worker messages.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	if logger == nil {
		return &AntsXLogger{}
	}
	return &AntsXLogger{
		logger: logger.Named("Ants"),
	}
}
