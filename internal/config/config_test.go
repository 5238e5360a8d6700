package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocalc"
)

// ============================================================
// Load tests
// ============================================================

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, gocalc.DefaultPrecision, cfg.Engine.Precision)
	assert.Equal(t, gocalc.DefaultMaxIterations, cfg.Engine.MaxIterations)
	assert.Equal(t, gocalc.DefaultTolerance, cfg.Engine.Tolerance)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultNATSSubject, cfg.NATS.Subject)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, "memory", cfg.History.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GOCALC_SERVER_PORT", "9090")
	t.Setenv("GOCALC_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("GOCALC_ENGINE_PRECISION", "6")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, 6, cfg.Engine.Precision)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gocalc.toml")
	content := `
[engine]
maxIterations = 20

[log]
level = "debug"
format = "json"

[history]
limit = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.Set("config", path)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Engine.MaxIterations)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.History.Limit)

	logger := cfg.Log.NewLogger()
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, logger.Formatter)
}

func TestLoad_MissingFile(t *testing.T) {
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load(v)
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--port", "7000", "--log-level", "warn"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// ============================================================
// Validate tests
// ============================================================

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(viper.New())
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(c *Config){
		"precision":     func(c *Config) { c.Engine.Precision = 0 },
		"iterations":    func(c *Config) { c.Engine.MaxIterations = 0 },
		"tolerance":     func(c *Config) { c.Engine.Tolerance = 0 },
		"port":          func(c *Config) { c.Server.Port = 70000 },
		"rate":          func(c *Config) { c.Server.RateLimit = -1 },
		"history limit": func(c *Config) { c.History.Limit = 0 },
		"driver":        func(c *Config) { c.History.Driver = "redis" },
		"postgres dsn":  func(c *Config) { c.History.Driver = "postgres" },
		"log level":     func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// ============================================================
// Builder tests
// ============================================================

func TestEngineBuilders(t *testing.T) {
	e := EngineConfig{Precision: 4, MaxIterations: 7, Tolerance: 1e-6}

	s := e.Solver(log.New())
	assert.Equal(t, 7, s.MaxIterations)
	assert.Equal(t, 1e-6, s.Tolerance)
	assert.NotNil(t, s.Logger)

	assert.Equal(t, "3.142", e.Formatter().Number(3.14159265))

	c := e.Calculator(nil)
	r, _ := c.Calculate("x^2 = 2", nil)
	assert.Equal(t, "1.414", c.Format(r))
}
