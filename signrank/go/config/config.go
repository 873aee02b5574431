// Package config holds the configuration of a signrank instance.
package config

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/pairedstats/infra/go/config"
	"github.com/pairedstats/infra/go/sklog/sklogimpl"
	"github.com/pairedstats/infra/signrank/go/compare"
	"github.com/pairedstats/infra/signrank/go/stats"
)

// ServerConfig configures the HTTP frontend.
type ServerConfig struct {
	// Port to serve the API on, e.g. ":8000".
	Port string `json:"port"`

	// PromPort serves Prometheus metrics, e.g. ":20000". Empty disables it.
	PromPort string `json:"prom_port" optional:"true"`

	// ReadTimeout and WriteTimeout bound each request.
	ReadTimeout  config.Duration `json:"read_timeout" optional:"true"`
	WriteTimeout config.Duration `json:"write_timeout" optional:"true"`

	// MaxPairs rejects requests with more pairs than this. 0 means no limit.
	MaxPairs int `json:"max_pairs" optional:"true"`

	// RequestsPerSecond limits the API request rate. 0 means no limit.
	RequestsPerSecond float64 `json:"requests_per_second" optional:"true"`

	// AllowedOrigins enables CORS for these origins, e.g. ["*"].
	AllowedOrigins []string `json:"allowed_origins" optional:"true"`
}

// InstanceConfig is the configuration shared by every signrank subcommand.
type InstanceConfig struct {
	// Sort names the SortStrategy, "default" or "radix".
	Sort string `json:"sort" optional:"true"`

	// HighThreshold is the p-value below which a comparison is Unknown
	// rather than Same.
	HighThreshold float64 `json:"high_threshold" optional:"true"`

	// Alpha is the significance level used when analyzing trace sets.
	Alpha float64 `json:"alpha" optional:"true"`

	// Concurrency bounds the number of traces analyzed at once. 0 means
	// GOMAXPROCS.
	Concurrency int `json:"concurrency" optional:"true"`

	// LogLevel is the lowest severity logged, e.g. "info".
	LogLevel string `json:"log_level" optional:"true"`

	Server ServerConfig `json:"server"`
}

// Default returns the configuration used when no file is given.
func Default() InstanceConfig {
	return InstanceConfig{
		Sort:          stats.DefaultSortName,
		HighThreshold: compare.DefaultHighThreshold,
		Alpha:         0.05,
		LogLevel:      "info",
		Server: ServerConfig{
			Port:         ":8000",
			PromPort:     ":20000",
			ReadTimeout:  config.Duration{Duration: 30 * time.Second},
			WriteTimeout: config.Duration{Duration: 30 * time.Second},
			MaxPairs:     1_000_000,
		},
	}
}

// Load reads the JSON5 file at path over the defaults and validates the
// result.
func Load(path string) (InstanceConfig, error) {
	cfg := Default()
	if err := config.LoadFromJSON5(&cfg, path); err != nil {
		return InstanceConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return InstanceConfig{}, errors.Wrapf(err, "validating %s", path)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c InstanceConfig) Validate() error {
	var result *multierror.Error
	if _, err := stats.SortStrategyByName[float64](c.Sort); err != nil {
		result = multierror.Append(result, err)
	}
	if c.HighThreshold <= compare.LowThreshold || c.HighThreshold > 1 {
		result = multierror.Append(result, errors.Errorf("high_threshold must be in (%v, 1], got %v", compare.LowThreshold, c.HighThreshold))
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		result = multierror.Append(result, errors.Errorf("alpha must be in (0, 1), got %v", c.Alpha))
	}
	if c.Concurrency < 0 {
		result = multierror.Append(result, errors.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if _, err := sklogimpl.ParseSeverity(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Server.Port == "" {
		result = multierror.Append(result, errors.New("server.port is required"))
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		result = multierror.Append(result, errors.New("server timeouts must not be negative"))
	}
	if c.Server.RequestsPerSecond < 0 {
		result = multierror.Append(result, errors.Errorf("server.requests_per_second must not be negative, got %v", c.Server.RequestsPerSecond))
	}
	if c.Server.MaxPairs < 0 {
		result = multierror.Append(result, errors.Errorf("server.max_pairs must not be negative, got %d", c.Server.MaxPairs))
	}
	return result.ErrorOrNil()
}
