package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"sigmaband/pkg/util"
)

// Config is the full configuration for both binaries. Paths and symbols
// are explicit values passed down from here; nothing reads ambient
// process state below main.
type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"oneof=dev staging prod"`

	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`

		// Per-client token bucket guarding the page and API routes.
		RateLimitBurst  float64 `yaml:"rate_limit_burst" default:"10" validate:"gt=0"`
		RateLimitPerSec float64 `yaml:"rate_limit_per_sec" default:"5" validate:"gt=0"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	Data struct {
		IndexSymbol  string        `yaml:"index_symbol" default:"^GSPC" validate:"required"`
		VolSymbol    string        `yaml:"vol_symbol" default:"^VIX" validate:"required"`
		LookbackDays int           `yaml:"lookback_days" default:"500" validate:"gt=1"`
		SnapshotPath string        `yaml:"snapshot_path" default:"data/spx_data.json" validate:"required"`
		DisplayPath  string        `yaml:"display_path" default:"data/display_data.json" validate:"required"`
		BaseURL      string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"30s"`
	} `yaml:"data"`

	Dashboard struct {
		DefaultWindow int           `yaml:"default_window" default:"40" validate:"gt=0"`
		MinWindow     int           `yaml:"min_window" default:"10" validate:"gt=0"`
		MaxWindow     int           `yaml:"max_window" default:"500" validate:"gt=0"`
		CacheTTL      time.Duration `yaml:"cache_ttl" default:"60s"`
	} `yaml:"dashboard"`

	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled" default:"false"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db" default:"0"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

var validate = validator.New()

// Load reads a YAML configuration file, fills defaults, and validates.
// An empty path yields a pure-defaults config.
//
// Defaults are applied first and the file is unmarshalled over them, so
// an explicit zero value in YAML (enabled: false, cache_ttl: 0) is kept
// rather than clobbered back to its tagged default.
func Load(path string) (*Config, error) {
	var c Config

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("SIGMABAND_SNAPSHOT_PATH"); v != "" {
		c.Data.SnapshotPath = v
	}
	if v := os.Getenv("SIGMABAND_DISPLAY_PATH"); v != "" {
		c.Data.DisplayPath = v
	}
	if v := os.Getenv("SIGMABAND_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

// Validate checks tag rules plus the cross-field window constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	d := c.Dashboard
	if d.MinWindow > d.MaxWindow {
		return fmt.Errorf("dashboard.min_window %d exceeds max_window %d", d.MinWindow, d.MaxWindow)
	}
	if d.DefaultWindow < d.MinWindow || d.DefaultWindow > d.MaxWindow {
		return fmt.Errorf("dashboard.default_window %d outside [%d, %d]", d.DefaultWindow, d.MinWindow, d.MaxWindow)
	}
	return nil
}
