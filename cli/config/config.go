package config

import (
	"fmt"
	"time"
)

// Config represents an hmvalidate.yaml configuration file.
// All values are optional and act as defaults for hmvalidate validate flags.
// CLI flags always override config values.
type Config struct {
	Type       string        `yaml:"type"`
	LogDir     string        `yaml:"log_dir"`
	ScoreDir   string        `yaml:"score_dir"`
	ErrorLimit *int          `yaml:"error_limit,omitempty"`
	Report     string        `yaml:"report"`
	Storage    StorageConfig `yaml:"storage"`
	Adapter    AdapterConfig `yaml:"adapter"`
}

// StorageConfig holds storage defaults from the config file.
type StorageConfig struct {
	Dataset     string `yaml:"dataset"`
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
