package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Duration is a yaml-friendly duration accepting both Go duration strings
// ("250ms", "1m") and integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var nanos int64
	if err := node.Decode(&nanos); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(nanos)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON; the zero-value is useful as all fields
// inherit their package defaults.
type Config struct {
	// Retry and timeout policy of the resilient runtime.
	MaxRetries      int      `json:"max_retries" yaml:"max_retries"`
	RetryBaseDelay  Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
	RetryBackoffCap Duration `json:"retry_backoff_cap" yaml:"retry_backoff_cap"`
	StageTimeout    Duration `json:"per_stage_timeout" yaml:"per_stage_timeout"`

	// Orchestration behaviour.
	EnableParallelTargeting bool `json:"enable_parallel_targeting" yaml:"enable_parallel_targeting"`
	DefaultTargetCount      int  `json:"default_target_count" yaml:"default_target_count"`

	// Registry bounds the default in-memory status store.
	Registry RegistryConfig `json:"registry" yaml:"registry"`
}

// RegistryConfig bounds status-snapshot retention.
type RegistryConfig struct {
	MaxEntries  int      `json:"max_entries" yaml:"max_entries"`
	TerminalTTL Duration `json:"terminal_ttl" yaml:"terminal_ttl"`
}

// DefaultConfig returns a Config populated with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:              3,
		RetryBaseDelay:          Duration(100 * time.Millisecond),
		RetryBackoffCap:         Duration(5 * time.Second),
		StageTimeout:            Duration(60 * time.Second),
		EnableParallelTargeting: true,
		DefaultTargetCount:      10,
		Registry: RegistryConfig{
			MaxEntries:  10000,
			TerminalTTL: Duration(time.Hour),
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1")
	}
	if c.RetryBaseDelay < 0 || c.RetryBackoffCap < 0 || c.StageTimeout < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	if c.Registry.MaxEntries < 0 {
		return fmt.Errorf("registry.max_entries must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML configuration from the supplied URL; any
// afs-supported scheme works (file, mem://, s3://, gs://).
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
