package stress

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

// Module provides the logger, the metrics exporter and the runner. The
// caller supplies *Config.
var Module = fx.Module("stress",
	fx.Provide(
		NewXLogger,
		NewMetricsExporter,
		newLifecycleRunner,
	),
)

func NewXLogger(cfg *Config, lc fx.Lifecycle) (xlog.XLogger, error) {
	opts, err := cfg.Logging.XLoggerOptions()
	if err != nil {
		return nil, err
	}
	logger := xlog.NewXLogger(opts...)
	lc.Append(fx.StopHook(logger.Close))
	return logger, nil
}

// NewMetricsExporter installs the global meter provider before any tree
// creates its instruments, and serves /metrics when the prometheus exporter
// is chosen with an address.
func NewMetricsExporter(cfg *Config, lc fx.Lifecycle, logger xlog.XLogger) (*observability.MetricsExporter, error) {
	typ, err := observability.ParseMetricsExporterType(cfg.Metrics.Exporter)
	if err != nil {
		return nil, err
	}
	exp, err := observability.NewMetricsExporter(typ, cfg.Metrics.Interval)
	if err != nil {
		return nil, err
	}
	if typ != observability.NoneExporter {
		if err = observability.InitAppStats(statsName); err != nil {
			logger.Warn("runtime stats unavailable", zap.Error(err))
		}
	}

	var srv *http.Server
	if exp.Handler != nil && cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", exp.Handler)
		srv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("metrics endpoint listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "metrics endpoint stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if srv != nil {
				_ = srv.Shutdown(ctx)
			}
			return exp.Shutdown(ctx)
		},
	})
	return exp, nil
}

// The exporter parameter only orders the construction.
func newLifecycleRunner(cfg *Config, logger xlog.XLogger, _ *observability.MetricsExporter, lc fx.Lifecycle) (*Runner, error) {
	runner, err := NewRunner(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(runner.Release))
	return runner, nil
}
