package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML durations written as strings, e.g. "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds client settings. Values come from an optional YAML file with
// EMBER_* environment variables taking precedence.
type Config struct {
	API struct {
		BaseURL string   `yaml:"base_url"`
		Timeout Duration `yaml:"timeout"`
	} `yaml:"api"`
	Realtime struct {
		URL              string   `yaml:"url"`
		ReconnectWait    Duration `yaml:"reconnect_wait"`
		MaxReconnectWait Duration `yaml:"max_reconnect_wait"`
		OutboxCapacity   int      `yaml:"outbox_capacity"`
	} `yaml:"realtime"`
	Credentials struct {
		Dir string `yaml:"dir"`
	} `yaml:"credentials"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	cfg.API.BaseURL = "https://api.ember.example.com/v1"
	cfg.API.Timeout = Duration(30 * time.Second)
	cfg.Realtime.URL = "wss://rt.ember.example.com/v1/socket"
	cfg.Realtime.ReconnectWait = Duration(2 * time.Second)
	cfg.Realtime.MaxReconnectWait = Duration(30 * time.Second)
	cfg.Realtime.OutboxCapacity = 64

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.Credentials.Dir = filepath.Join(home, ".ember", "credentials")
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the config file at path (when it exists) over the defaults,
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv("EMBER_API_URL", c.API.BaseURL)
	c.API.Timeout = Duration(getEnvAsDuration("EMBER_API_TIMEOUT", c.API.Timeout.Std()))
	c.Realtime.URL = getEnv("EMBER_REALTIME_URL", c.Realtime.URL)
	c.Realtime.ReconnectWait = Duration(getEnvAsDuration("EMBER_RECONNECT_WAIT", c.Realtime.ReconnectWait.Std()))
	c.Realtime.MaxReconnectWait = Duration(getEnvAsDuration("EMBER_MAX_RECONNECT_WAIT", c.Realtime.MaxReconnectWait.Std()))
	c.Realtime.OutboxCapacity = getEnvAsInt("EMBER_OUTBOX_CAPACITY", c.Realtime.OutboxCapacity)
	c.Credentials.Dir = getEnv("EMBER_CREDENTIALS_DIR", c.Credentials.Dir)
	c.Log.Level = getEnv("EMBER_LOG_LEVEL", c.Log.Level)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
