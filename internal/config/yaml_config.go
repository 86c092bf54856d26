package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Settings that are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Pricing   PricingConfig   `yaml:"pricing"`
	Feed      FeedConfig      `yaml:"feed"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
}

// PricingConfig defines per-message channel costs. There are no built-in
// prices; a channel that is not listed cannot be estimated.
type PricingConfig struct {
	Channels map[string]ChannelPriceConfig `yaml:"channels"`
}

// ChannelPriceConfig is the cost of one message on a channel.
type ChannelPriceConfig struct {
	CostPerMessage string `yaml:"cost_per_message"` // decimal string, e.g. "0.70"
	Currency       string `yaml:"currency"`         // ISO 4217, e.g. "INR"
}

// FeedConfig tunes the live event feed consumer.
type FeedConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BufferSize     int           `yaml:"buffer_size"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// SnapshotsConfig controls the recommendation snapshot job.
type SnapshotsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"` // standard 5-field cron spec
}

// DefaultYAMLConfig returns the settings used when no config file exists.
func DefaultYAMLConfig() *YAMLConfig {
	cfg := &YAMLConfig{
		Feed:      FeedConfig{Enabled: true},
		Snapshots: SnapshotsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// A missing file yields DefaultYAMLConfig.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return DefaultYAMLConfig(), nil
		}
		return nil, err
	}

	cfg := YAMLConfig{
		Feed:      FeedConfig{Enabled: true},
		Snapshots: SnapshotsConfig{Enabled: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *YAMLConfig) applyDefaults() {
	if c.Feed.BufferSize <= 0 {
		c.Feed.BufferSize = 10
	}
	if c.Feed.ReconnectDelay <= 0 {
		c.Feed.ReconnectDelay = 3 * time.Second
	}
	if c.Snapshots.Cron == "" {
		c.Snapshots.Cron = "*/15 * * * *"
	}
}
