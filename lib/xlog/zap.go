package xlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ XLogger = (*xLogger)(nil)

// xLogger is wrapper logger of Uber zap logger.
type xLogger struct {
	logger              atomic.Pointer[zap.Logger]
	dynamicLevelEnabler zap.AtomicLevel
	core                *consoleCore
	bannerOnce          *sync.Once
	closeOnce           *sync.Once
	stop                func() error
}

func (l *xLogger) Zap() *zap.Logger {
	return l.logger.Load()
}

func (l *xLogger) Named(name string) XLogger {
	child := &xLogger{
		dynamicLevelEnabler: l.dynamicLevelEnabler,
		core:                l.core,
		bannerOnce:          l.bannerOnce,
		closeOnce:           &sync.Once{},
	}
	child.logger.Store(l.logger.Load().Named(name).WithOptions(zap.WithCaller(false)))
	return child
}

func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.dynamicLevelEnabler.SetLevel(level)
}

func (l *xLogger) Level() string {
	return l.dynamicLevelEnabler.Level().String()
}

func (l *xLogger) Sync() error {
	return l.logger.Load().Sync()
}

// Close flushes and releases the buffered writer. Only the root logger owns it.
func (l *xLogger) Close() {
	l.closeOnce.Do(func() {
		_ = l.Sync()
		if l.stop != nil {
			_ = l.stop()
		}
	})
}

func (l *xLogger) Banner(banner Banner) {
	if banner == nil {
		return
	}
	l.bannerOnce.Do(func() {
		_l := zap.New(l.core.bannerCore())
		switch l.core.encoder {
		case PlainText:
			_l.Info(banner.PlainText())
		case JSON:
			fallthrough
		default:
			_l.Info(banner.JSON())
		}
		_ = _l.Sync()
	})
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Load().Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Load().Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Load().Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Load().Error(msg, newFields...)
}

func (l *xLogger) Logf(lvl zapcore.Level, format string, args ...any) {
	l.logger.Load().Log(lvl, fmt.Sprintf(format, args...))
}

type loggerCfg struct {
	writerType  *LogOutWriterType
	encoderType *LogEncoderType
	outWriter   io.Writer
	lvlEncoder  zapcore.LevelEncoder
	tsEncoder   zapcore.TimeEncoder
	level       *zapcore.Level
}

type XLoggerOption func(*loggerCfg) error

func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if err := o(cfg); err != nil {
			panic(err)
		}
	}

	lvl := getLogLevelOrDefault(os.Getenv("XLOG_LVL"))
	if cfg.level != nil {
		lvl = *cfg.level
	}
	writer := StdOut
	if cfg.writerType != nil {
		writer = *cfg.writerType
	}
	encoder := JSON
	if cfg.encoderType != nil {
		encoder = *cfg.encoderType
	}
	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}
	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}

	ws, stop := getOutWriter(writer, cfg.outWriter)
	xl := &xLogger{
		dynamicLevelEnabler: zap.NewAtomicLevelAt(lvl),
		bannerOnce:          &sync.Once{},
		closeOnce:           &sync.Once{},
		stop:                stop,
	}
	xl.core = &consoleCore{
		lvlEnabler: xl.dynamicLevelEnabler,
		ws:         ws,
		encoder:    encoder,
		lvlEnc:     cfg.lvlEncoder,
		tsEnc:      cfg.tsEncoder,
	}

	// Disable zap logger error stack.
	l := zap.New(
		xl.core.build(),
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	xl.logger.Store(l)
	return xl
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return fmt.Errorf("writer %d: %w", w, ErrXLoggerUnknownWriter)
		}
		cfg.writerType = &w
		return nil
	}
}

// WithXLoggerOutWriter sends the output to w, it takes precedence over
// WithXLoggerWriter. Mostly used by tests to capture the output in memory.
func WithXLoggerOutWriter(w io.Writer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w == nil {
			return ErrXLoggerNilWriter
		}
		cfg.outWriter = w
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return fmt.Errorf("encoder %d: %w", logEnc, ErrXLoggerUnknownEncoder)
		}
		cfg.encoderType = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := getLogLevelOrDefault(lvl.String())
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}

func getLogLevelOrDefault(level string) zapcore.Level {
	if len(strings.TrimSpace(level)) == 0 {
		return zapcore.DebugLevel
	}
	return LogLevel(strings.ToUpper(strings.TrimSpace(level))).zapLevel()
}
