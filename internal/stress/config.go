package stress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

var (
	ErrInvalidRounds     = errors.New("[stress] rounds must be positive")
	ErrInvalidWorkers    = errors.New("[stress] workers must be positive")
	ErrInvalidInserts    = errors.New("[stress] inserts must be positive")
	ErrInvalidKeyBound   = errors.New("[stress] key bound must be positive")
	ErrInvalidEraseRatio = errors.New("[stress] erase ratio must be within [0, 1]")
	ErrInvalidArenaLimit = errors.New("[stress] arena limit must not be negative")
	ErrInvalidLogFormat  = errors.New("[stress] log format must be json or text")
	ErrInvalidLogOutput  = errors.New("[stress] log output must be stdout or stderr")
)

const (
	EnvPrefix = "XTREE"

	defaultRounds          = 4
	defaultInserts         = 100_000
	defaultKeyBound        = 50_000
	defaultEraseRatio      = 0.5
	defaultSeed            = 2024
	defaultMetricsInterval = 10 * time.Second
)

type Config struct {
	Rounds     int           `mapstructure:"rounds"`
	Workers    int           `mapstructure:"workers"`
	Inserts    int           `mapstructure:"inserts"`
	KeyBound   int           `mapstructure:"key_bound"`
	EraseRatio float64       `mapstructure:"erase_ratio"`
	Seed       uint64        `mapstructure:"seed"`
	ArenaLimit int           `mapstructure:"arena_limit"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Logging    LoggingConfig `mapstructure:"logging"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Exporter string        `mapstructure:"exporter"`
	Interval time.Duration `mapstructure:"interval"`
	Addr     string        `mapstructure:"addr"`
}

// NewViper prepares defaults and the XTREE_ environment mapping, nested keys
// use underscores (XTREE_LOGGING_LEVEL).
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rounds", defaultRounds)
	v.SetDefault("workers", 0)
	v.SetDefault("inserts", defaultInserts)
	v.SetDefault("key_bound", defaultKeyBound)
	v.SetDefault("erase_ratio", defaultEraseRatio)
	v.SetDefault("seed", defaultSeed)
	v.SetDefault("arena_limit", 0)
	v.SetDefault("timeout", time.Duration(0))

	v.SetDefault("logging.level", xlog.LogLevelInfo.String())
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("metrics.exporter", string(observability.NoneExporter))
	v.SetDefault("metrics.interval", defaultMetricsInterval)
	v.SetDefault("metrics.addr", "")
}

// LoadConfig reads the optional YAML file and unmarshals everything v knows
// about (defaults, file, env and bound flags). Zero workers means one worker
// per round.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = cfg.Rounds
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Rounds <= 0:
		return ErrInvalidRounds
	case cfg.Workers <= 0:
		return ErrInvalidWorkers
	case cfg.Inserts <= 0:
		return ErrInvalidInserts
	case cfg.KeyBound <= 0:
		return ErrInvalidKeyBound
	case cfg.EraseRatio < 0 || cfg.EraseRatio > 1:
		return ErrInvalidEraseRatio
	case cfg.ArenaLimit < 0:
		return ErrInvalidArenaLimit
	default:
	}
	if _, err := cfg.Logging.encoder(); err != nil {
		return err
	}
	if _, err := cfg.Logging.writer(); err != nil {
		return err
	}
	if _, err := observability.ParseMetricsExporterType(cfg.Metrics.Exporter); err != nil {
		return err
	}
	return nil
}

func (cfg LoggingConfig) encoder() (xlog.LogEncoderType, error) {
	switch strings.ToLower(cfg.Format) {
	case "json":
		return xlog.JSON, nil
	case "text", "":
		return xlog.PlainText, nil
	default:
	}
	return xlog.JSON, fmt.Errorf("%q: %w", cfg.Format, ErrInvalidLogFormat)
}

func (cfg LoggingConfig) writer() (xlog.LogOutWriterType, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		return xlog.StdOut, nil
	case "stderr":
		return xlog.StdErr, nil
	default:
	}
	return xlog.StdOut, fmt.Errorf("%q: %w", cfg.Output, ErrInvalidLogOutput)
}

// XLoggerOptions translates the logging section into logger options.
func (cfg LoggingConfig) XLoggerOptions() ([]xlog.XLoggerOption, error) {
	enc, err := cfg.encoder()
	if err != nil {
		return nil, err
	}
	w, err := cfg.writer()
	if err != nil {
		return nil, err
	}
	return []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(xlog.LogLevel(strings.ToUpper(cfg.Level))),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerWriter(w),
	}, nil
}
