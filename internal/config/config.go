// Package config loads the service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full service configuration, populated from environment
// variables with sane defaults for local development.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		// MaxJobs caps the number of concurrently running optimization jobs.
		MaxJobs int `env:"OPT_MAX_JOBS" envDefault:"10"`
		// DefaultAgents is the population size used when a request omits it.
		DefaultAgents int `env:"OPT_DEFAULT_AGENTS" envDefault:"30"`
		// DefaultIterations is the iteration count used when a request omits it.
		DefaultIterations int `env:"OPT_DEFAULT_ITERATIONS" envDefault:"100"`
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}
