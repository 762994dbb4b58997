// Package config loads toolkit configuration from an optional YAML file,
// GRIDPLAN_* environment variables, and built-in defaults, in that order
// of precedence (highest last).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gridlabs-ec/gridplan/internal/cost"
)

// ServerSettings configures the HTTP job server.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// DataDir is the base directory for persisted solve results.
	DataDir string
}

// Config is the fully resolved toolkit configuration.
type Config struct {
	Server ServerSettings
	Rates  cost.Rates
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:    ":8080",
			DataDir: "./data",
		},
		Rates: cost.DefaultRates(),
	}
}

// Load resolves configuration from defaults, the optional YAML file at
// path, and GRIDPLAN_* environment variables. An empty path skips the
// file without error; a named file that is missing or malformed is an
// error.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.datadir", defaults.Server.DataDir)
	v.SetDefault("rates.constructionbase", defaults.Rates.ConstructionBase)
	v.SetDefault("rates.constructionunit", defaults.Rates.ConstructionUnit)
	v.SetDefault("rates.constructionscale", defaults.Rates.ConstructionScale)
	v.SetDefault("rates.operationnormal", defaults.Rates.OperationNormal)
	v.SetDefault("rates.operationidle", defaults.Rates.OperationIdle)
	v.SetDefault("rates.operationdeficit", defaults.Rates.OperationDeficit)
	v.SetDefault("rates.maintenancedefault", defaults.Rates.MaintenanceDefault)
	v.SetDefault("rates.degradationpenalty", defaults.Rates.DegradationPenalty)

	v.SetEnvPrefix("GRIDPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks for values the solvers cannot work with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.DataDir == "" {
		return fmt.Errorf("server.datadir must not be empty")
	}

	r := c.Rates
	for name, value := range map[string]float64{
		"rates.constructionbase":   r.ConstructionBase,
		"rates.constructionunit":   r.ConstructionUnit,
		"rates.constructionscale":  r.ConstructionScale,
		"rates.operationnormal":    r.OperationNormal,
		"rates.operationidle":      r.OperationIdle,
		"rates.operationdeficit":   r.OperationDeficit,
		"rates.maintenancedefault": r.MaintenanceDefault,
		"rates.degradationpenalty": r.DegradationPenalty,
	} {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0, got %f", name, value)
		}
	}

	// The deficit rate must stay above the idle rate, otherwise the
	// planner has no reason to cover demand at all.
	if r.OperationDeficit <= r.OperationIdle {
		return fmt.Errorf("rates.operationdeficit (%f) must exceed rates.operationidle (%f)",
			r.OperationDeficit, r.OperationIdle)
	}

	return nil
}
