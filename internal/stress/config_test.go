package stress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, defaultRounds, cfg.Rounds)
	require.Equal(t, defaultRounds, cfg.Workers)
	require.Equal(t, defaultInserts, cfg.Inserts)
	require.Equal(t, defaultKeyBound, cfg.KeyBound)
	require.Equal(t, defaultEraseRatio, cfg.EraseRatio)
	require.Equal(t, uint64(defaultSeed), cfg.Seed)
	require.Equal(t, "INFO", cfg.Logging.Level)
	require.Equal(t, string(observability.NoneExporter), cfg.Metrics.Exporter)
	require.Equal(t, defaultMetricsInterval, cfg.Metrics.Interval)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("XTREE_ROUNDS", "3")
	t.Setenv("XTREE_KEY_BOUND", "10")
	t.Setenv("XTREE_TIMEOUT", "3s")
	t.Setenv("XTREE_LOGGING_FORMAT", "json")
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Rounds)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, 10, cfg.KeyBound)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rounds: 2
workers: 1
inserts: 1000
erase_ratio: 0.25
logging:
  level: warn
  output: stderr
metrics:
  exporter: prometheus
  addr: "127.0.0.1:0"
`), 0o600))
	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Rounds)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 1000, cfg.Inserts)
	require.Equal(t, 0.25, cfg.EraseRatio)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "prometheus", cfg.Metrics.Exporter)

	_, err = LoadConfig(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(NewViper(), "")
		require.NoError(t, err)
		return cfg
	}
	testcases := []struct {
		name   string
		mutate func(cfg *Config)
		err    error
	}{
		{"rounds", func(cfg *Config) { cfg.Rounds = 0 }, ErrInvalidRounds},
		{"workers", func(cfg *Config) { cfg.Workers = -1 }, ErrInvalidWorkers},
		{"inserts", func(cfg *Config) { cfg.Inserts = 0 }, ErrInvalidInserts},
		{"key bound", func(cfg *Config) { cfg.KeyBound = 0 }, ErrInvalidKeyBound},
		{"erase ratio", func(cfg *Config) { cfg.EraseRatio = 1.5 }, ErrInvalidEraseRatio},
		{"arena limit", func(cfg *Config) { cfg.ArenaLimit = -1 }, ErrInvalidArenaLimit},
		{"log format", func(cfg *Config) { cfg.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"log output", func(cfg *Config) { cfg.Logging.Output = "file" }, ErrInvalidLogOutput},
		{"exporter", func(cfg *Config) { cfg.Metrics.Exporter = "statsd" }, observability.ErrUnknownMetricsExporter},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			require.ErrorIs(tt, cfg.Validate(), tc.err)
		})
	}

	t.Setenv("XTREE_ERASE_RATIO", "-0.1")
	_, err := LoadConfig(NewViper(), "")
	require.ErrorIs(t, err, ErrInvalidEraseRatio)
}

func TestLoggingConfig_XLoggerOptions(t *testing.T) {
	opts, err := LoggingConfig{Level: "debug", Format: "JSON", Output: "stderr"}.XLoggerOptions()
	require.NoError(t, err)
	require.Len(t, opts, 3)
	logger := xlog.NewXLogger(opts...)
	require.Equal(t, "debug", logger.Level())
	logger.Close()

	_, err = LoggingConfig{Format: "xml"}.XLoggerOptions()
	require.ErrorIs(t, err, ErrInvalidLogFormat)
	_, err = LoggingConfig{Output: "syslog"}.XLoggerOptions()
	require.ErrorIs(t, err, ErrInvalidLogOutput)
}
