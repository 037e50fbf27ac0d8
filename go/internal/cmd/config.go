package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dashboard engine's configuration knobs. Poll interval and
// tick interval are deliberately independent: correctness never depends on a
// particular poll cadence, only on snapshots eventually arriving.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	RoomAPI struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"room_api"`

	Snapshots struct {
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	} `yaml:"snapshots"`

	Ticker struct {
		TickIntervalSeconds int `yaml:"tick_interval_seconds"`
	} `yaml:"ticker"`

	NATS struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		SubjectFilter string `yaml:"subject_filter"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment overrides and defaults.
	if config.Server.Port == "" {
		config.Server.Port = getEnv("PORT", "8080")
	}
	if config.RoomAPI.BaseURL == "" {
		config.RoomAPI.BaseURL = getEnv("ROOM_API_BASE_URL", "http://localhost:9000")
	}
	if config.Snapshots.PollIntervalSeconds == 0 {
		config.Snapshots.PollIntervalSeconds = getEnvAsInt("SNAPSHOT_POLL_INTERVAL_SECONDS", 10)
	}
	if config.Ticker.TickIntervalSeconds == 0 {
		config.Ticker.TickIntervalSeconds = getEnvAsInt("TICK_INTERVAL_SECONDS", 1)
	}
	if config.NATS.URL == "" {
		config.NATS.URL = getEnv("NATS_URL", "")
		config.NATS.Enabled = config.NATS.URL != ""
	}

	return &config, nil
}

func (c *Config) pollInterval() time.Duration {
	return time.Duration(c.Snapshots.PollIntervalSeconds) * time.Second
}

func (c *Config) tickInterval() time.Duration {
	return time.Duration(c.Ticker.TickIntervalSeconds) * time.Second
}
