// Package config loads calculator settings from defaults, an optional config
// file, GOCALC_* environment variables and command-line flags, in increasing
// order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/njchilds90/gocalc"
)

// Defaults for settings without an engine counterpart.
const (
	DefaultPort          = 8080
	DefaultRateLimit     = 50
	DefaultRateBurst     = 100
	DefaultNATSSubject   = "gocalc.tool"
	DefaultHistoryLimit  = 1000
	DefaultHistoryDriver = "memory"
)

// EngineConfig tunes the solver and the result formatter.
type EngineConfig struct {
	Precision     int
	MaxIterations int
	Tolerance     float64
}

// LogConfig selects the logrus level and text or json output.
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig is the HTTP listener and its request throttle. A zero
// RateLimit disables throttling.
type ServerConfig struct {
	Port      int
	RateLimit float64
	RateBurst int
}

// NATSConfig enables the request/reply responder when URL is set.
type NATSConfig struct {
	URL     string
	Subject string
}

// HistoryConfig picks the history store: memory, or postgres with a DSN.
type HistoryConfig struct {
	Driver string
	DSN    string
	Limit  int
}

// Config is the validated result of Load.
type Config struct {
	Engine  EngineConfig
	Log     LogConfig
	Server  ServerConfig
	NATS    NATSConfig
	History HistoryConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.precision", gocalc.DefaultPrecision)
	v.SetDefault("engine.maxIterations", gocalc.DefaultMaxIterations)
	v.SetDefault("engine.tolerance", gocalc.DefaultTolerance)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.rateLimit", DefaultRateLimit)
	v.SetDefault("server.rateBurst", DefaultRateBurst)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", DefaultNATSSubject)
	v.SetDefault("history.driver", DefaultHistoryDriver)
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.limit", DefaultHistoryLimit)
}

// BindFlags registers the command-line overrides on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("config", "", "Path to a config file (toml, yaml, json)")
	fs.Int("port", DefaultPort, "Port to listen on")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("nats-url", "", "NATS server URL; empty disables the NATS responder")
	fs.String("history-driver", DefaultHistoryDriver, "History store: memory or postgres")
	fs.String("history-dsn", "", "Postgres connection string for the postgres history store")

	bindings := map[string]string{
		"config":         "config",
		"server.port":    "port",
		"log.level":      "log-level",
		"nats.url":       "nats-url",
		"history.driver": "history-driver",
		"history.dsn":    "history-dsn",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the configuration held by v. A "config" key, usually bound to
// the --config flag, names a file to merge in; without one, an optional
// gocalc.{toml,yaml,json} is looked up in . and $HOME/.gocalc.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("GOCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gocalc")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gocalc")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Engine: EngineConfig{
			Precision:     v.GetInt("engine.precision"),
			MaxIterations: v.GetInt("engine.maxIterations"),
			Tolerance:     v.GetFloat64("engine.tolerance"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Server: ServerConfig{
			Port:      v.GetInt("server.port"),
			RateLimit: v.GetFloat64("server.rateLimit"),
			RateBurst: v.GetInt("server.rateBurst"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("nats.url"),
			Subject: v.GetString("nats.subject"),
		},
		History: HistoryConfig{
			Driver: strings.ToLower(v.GetString("history.driver")),
			DSN:    v.GetString("history.dsn"),
			Limit:  v.GetInt("history.limit"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range numbers, unknown history drivers and log
// levels logrus cannot parse.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Precision < 1 || c.Engine.Precision > 17:
		return fmt.Errorf("engine.precision must be between 1 and 17, got %d", c.Engine.Precision)
	case c.Engine.MaxIterations < 1:
		return fmt.Errorf("engine.maxIterations must be positive, got %d", c.Engine.MaxIterations)
	case c.Engine.Tolerance <= 0:
		return fmt.Errorf("engine.tolerance must be positive, got %g", c.Engine.Tolerance)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	case c.Server.RateLimit < 0 || c.Server.RateBurst < 0:
		return fmt.Errorf("server.rateLimit and server.rateBurst must not be negative")
	case c.History.Limit < 1:
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	switch c.History.Driver {
	case "memory":
	case "postgres":
		if c.History.DSN == "" {
			return fmt.Errorf("history.dsn is required for the postgres history store")
		}
	default:
		return fmt.Errorf("unknown history.driver %q", c.History.Driver)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger() *log.Logger {
	logger := log.New()
	logger.Out = os.Stderr
	if level, err := log.ParseLevel(c.Level); err == nil {
		logger.SetLevel(level)
	}
	if strings.EqualFold(c.Format, "json") {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Solver builds a solver that logs through logger, tagged
// component=solver. A nil logger keeps the solver silent.
func (c EngineConfig) Solver(logger log.FieldLogger) *gocalc.Solver {
	s := gocalc.NewSolver()
	s.MaxIterations = c.MaxIterations
	s.Tolerance = c.Tolerance
	if logger != nil {
		s.Logger = logger.WithField("component", "solver")
	}
	return s
}

// Formatter renders numbers with c.Precision significant digits.
func (c EngineConfig) Formatter() gocalc.Formatter {
	return gocalc.Formatter{Precision: c.Precision}
}

// Calculator combines Solver and Formatter.
func (c EngineConfig) Calculator(logger log.FieldLogger) *gocalc.Calculator {
	return &gocalc.Calculator{Solver: c.Solver(logger), Formatter: c.Formatter()}
}
