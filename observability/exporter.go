package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type MetricsExporterType string

const (
	NoneExporter       MetricsExporterType = "none"
	ConsoleExporter    MetricsExporterType = "console"
	PrometheusExporter MetricsExporterType = "prometheus"
)

var ErrUnknownMetricsExporter = errors.New("[observability] unknown metrics exporter")

func ParseMetricsExporterType(typ string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(strings.ToLower(strings.TrimSpace(typ))); t {
	case "", NoneExporter:
		return NoneExporter, nil
	case ConsoleExporter, PrometheusExporter:
		return t, nil
	default:
	}
	return NoneExporter, fmt.Errorf("%q: %w", typ, ErrUnknownMetricsExporter)
}

// MetricsExporter owns the global meter provider it installed. Handler is
// only set for the prometheus exporter.
type MetricsExporter struct {
	Type     MetricsExporterType
	Handler  http.Handler
	shutdown func(ctx context.Context) error
}

func (exp *MetricsExporter) Shutdown(ctx context.Context) error {
	if exp == nil || exp.shutdown == nil {
		return nil
	}
	return exp.shutdown(ctx)
}

func NewMetricsExporter(typ MetricsExporterType, interval time.Duration) (*MetricsExporter, error) {
	switch typ {
	case ConsoleExporter:
		shutdown, err := newConsoleMetricsExporter(interval, interval)
		if err != nil {
			return nil, err
		}
		return &MetricsExporter{Type: typ, shutdown: shutdown}, nil
	case PrometheusExporter:
		handler, shutdown, err := newPrometheusMetricsExporter()
		if err != nil {
			return nil, err
		}
		return &MetricsExporter{Type: typ, Handler: handler, shutdown: shutdown}, nil
	case NoneExporter:
		return &MetricsExporter{Type: typ}, nil
	default:
	}
	return nil, fmt.Errorf("%q: %w", typ, ErrUnknownMetricsExporter)
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	readerOpts := make([]metric.PeriodicReaderOption, 0, 2)
	if interval > 0 {
		readerOpts = append(readerOpts, metric.WithInterval(interval))
	}
	if timeout > 0 {
		readerOpts = append(readerOpts, metric.WithTimeout(timeout))
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter, readerOpts...)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
// Each call uses its own registry so that repeated setups never collide.
func newPrometheusMetricsExporter() (http.Handler, func(ctx context.Context) error, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), mp.Shutdown, nil
}
