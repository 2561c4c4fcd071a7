package xlog

import (
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (lvl LogLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
	}
	return zapcore.DebugLevel
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	StdErr
	_writerMax
)

const coreKeyIgnored = ""

var (
	ErrXLoggerUnknownWriter  = errors.New("[XLogger] unknown writer")
	ErrXLoggerUnknownEncoder = errors.New("[XLogger] unknown encoder")
	ErrXLoggerNilWriter      = errors.New("[XLogger] nil out writer")
)

type Banner interface {
	JSON() string
	PlainText() string
}

type XLogger interface {
	// Zap exposes the underlying logger for libraries accepting *zap.Logger.
	Zap() *zap.Logger
	// Named returns a child logger sharing the writer and the dynamic level.
	Named(name string) XLogger
	// IncreaseLogLevel we can increase or decrease the log level concurrently.
	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Close()
	Banner(banner Banner)

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	Logf(lvl zapcore.Level, format string, args ...any)
}
