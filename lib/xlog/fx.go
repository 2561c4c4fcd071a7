package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the application lifecycle. Dependency graph events are
// debug level, lifecycle transitions are info level.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("HOOK OnStart",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStart failed",
				zap.String("function", e.FunctionName),
				zap.Duration("in", e.Runtime),
			)
			return
		}
		l.logger.Debug("HOOK OnStart done",
			zap.String("function", e.FunctionName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("HOOK OnStop",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStop failed",
				zap.String("function", e.FunctionName),
				zap.Duration("in", e.Runtime),
			)
			return
		}
		l.logger.Debug("HOOK OnStop done",
			zap.String("function", e.FunctionName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "SUPPLY failed", zap.String("type", e.TypeName))
			return
		}
		l.logger.Debug("SUPPLY", zap.String("type", e.TypeName))
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("PROVIDE",
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "PROVIDE failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Decorated:
		if e.Err != nil {
			l.logger.Error(e.Err, "DECORATE failed", zap.String("decorator", e.DecoratorName))
		}
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
			return
		}
		l.logger.Info("RUNNING")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialize failed")
			return
		}
		l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
	default:
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	if logger == nil {
		return &FxXLogger{}
	}
	return &FxXLogger{logger: logger.Named("Fx")}
}
