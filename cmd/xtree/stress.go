package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/internal/stress"
	xruntime "github.com/benz9527/xtree/lib/runtime"
	"github.com/benz9527/xtree/lib/xlog"
)

type xtreeBanner struct{}

func (xtreeBanner) JSON() string {
	return fmt.Sprintf(`{"app":"xtree","version":%q}`, Version)
}

func (xtreeBanner) PlainText() string {
	return `
 __  __ _
 \ \/ /| |_ _ __ ___  ___
  \  / | __| '__/ _ \/ _ \
  /  \ | |_| | |  __/  __/
 /_/\_\ \__|_|  \___|\___|  ` + Version + `
`
}

// flag name -> config key
var stressFlagKeys = map[string]string{
	"rounds":           "rounds",
	"workers":          "workers",
	"inserts":          "inserts",
	"key-bound":        "key_bound",
	"erase-ratio":      "erase_ratio",
	"seed":             "seed",
	"arena-limit":      "arena_limit",
	"timeout":          "timeout",
	"log-level":        "logging.level",
	"log-format":       "logging.format",
	"log-output":       "logging.output",
	"metrics-exporter": "metrics.exporter",
	"metrics-interval": "metrics.interval",
	"metrics-addr":     "metrics.addr",
}

func newStressCommand() *cobra.Command {
	var configPath string
	v := stress.NewViper()
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run randomized insert and erase rounds and validate the tree",
		Long: `Each round inserts random keys within [0, key-bound) as unique keys,
validates every red-black invariant, erases a random share of the keys,
validates again and drains the tree. Rounds run concurrently, each on its
own tree. Flags override XTREE_* environment variables, which override the
config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := stress.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			return runStress(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flags.IntP("rounds", "r", v.GetInt("rounds"), "number of independent rounds")
	flags.IntP("workers", "w", v.GetInt("workers"), "goroutine pool size, 0 means one per round")
	flags.IntP("inserts", "n", v.GetInt("inserts"), "insert attempts per round")
	flags.Int("key-bound", v.GetInt("key_bound"), "keys are drawn from [0, key-bound)")
	flags.Float64("erase-ratio", v.GetFloat64("erase_ratio"), "share of the distinct keys erased by key")
	flags.Uint64("seed", v.GetUint64("seed"), "random seed, rounds derive their own stream")
	flags.Int("arena-limit", v.GetInt("arena_limit"), "node arena capacity per round, 0 means unbounded")
	flags.Duration("timeout", v.GetDuration("timeout"), "abort the run after this duration, 0 means never")
	flags.String("log-level", v.GetString("logging.level"), "debug, info, warn or error")
	flags.String("log-format", v.GetString("logging.format"), "json or text")
	flags.String("log-output", v.GetString("logging.output"), "stdout or stderr")
	flags.String("metrics-exporter", v.GetString("metrics.exporter"), "none, console or prometheus")
	flags.Duration("metrics-interval", v.GetDuration("metrics.interval"), "console exporter interval")
	flags.String("metrics-addr", v.GetString("metrics.addr"), "prometheus /metrics listen address")
	for name, key := range stressFlagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func setMaxProcs(lc fx.Lifecycle, logger xlog.XLogger) error {
	env := xruntime.DetectEnv()
	logger.Debug("runtime environment",
		zap.Bool("docker", env.Docker),
		zap.Bool("kubernetes", env.Kubernetes),
		zap.String("container", env.ContainerID),
	)
	if !env.InContainer() {
		return nil
	}
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(undo))
	return nil
}

func logReport(logger xlog.XLogger, report *stress.Report) {
	if report == nil {
		return
	}
	logger.Info("stress finished",
		zap.String("run", report.RunID),
		zap.Int("rounds", len(report.Rounds)),
		zap.Int64("inserted", report.Inserted()),
		zap.Int64("erased", report.Erased()),
		zap.Duration("elapsed", report.Elapsed),
		zap.Uint64("rss", report.RSS),
	)
}

func runStress(ctx context.Context, cfg *stress.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)

	app := fx.New(
		fx.Supply(cfg),
		stress.Module,
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(setMaxProcs),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, runner *stress.Runner, logger xlog.XLogger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					logger.Banner(xtreeBanner{})
					go func() {
						report, err := runner.Run(runCtx)
						logReport(logger, report)
						done <- err
						code := 0
						if err != nil {
							code = 1
						}
						_ = sd.Shutdown(fx.ExitCode(code))
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, startCancel := context.WithTimeout(ctx, app.StartTimeout())
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	sig := <-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stress failed: %w", err)
		}
	default:
		return fmt.Errorf("stress interrupted by %s", sig.Signal)
	}
	return nil
}
