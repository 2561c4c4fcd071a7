package observability

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const AppStatsName = "xtree/app"

func appStatsName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(AppStatsName)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// ProcessRSS returns the resident set size of the current process in bytes.
func ProcessRSS(ctx context.Context) (uint64, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return mem.RSS, nil
}

// InitAppStats registers the process gauges against the global meter
// provider and starts the Go runtime instrumentation. Install the exporter
// first, instruments bound to an earlier provider are not migrated.
func InitAppStats(name string) error {
	meter := otel.Meter(
		appStatsName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	))
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application GOMAXPROCS.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	))
	lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"app.core.rss",
		metric.WithUnit("By"),
		metric.WithDescription(`The application resident set size.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			rss, err := ProcessRSS(ctx)
			if err != nil {
				return err
			}
			ob.Observe(int64(rss))
			return nil
		}),
	))
	return otelruntime.Start(otelruntime.WithMinimumReadMemStatsInterval(time.Second))
}
