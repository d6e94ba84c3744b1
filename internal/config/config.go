package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type DetectorConfig struct {
	Engine         string `toml:"engine"`
	Interpreter    string `toml:"interpreter"`
	Script         string `toml:"script"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type StorageConfig struct {
	WorkspaceRoot string `toml:"workspace_root"`
	DataDir       string `toml:"data_dir"`
	CacheEntries  int    `toml:"cache_entries"`
}

type ResultsConfig struct {
	Orientation     string  `toml:"orientation"`
	ConfidenceScore float64 `toml:"confidence_score"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Detector DetectorConfig `toml:"detector"`
	Storage  StorageConfig  `toml:"storage"`
	Results  ResultsConfig  `toml:"results"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Detector.Engine == "" {
		c.Detector.Engine = "opencv"
	}
	if c.Detector.Interpreter == "" {
		c.Detector.Interpreter = "python3"
	}
	if c.Detector.Script == "" {
		c.Detector.Script = "scripts/detect_rooms.py"
	}
	if c.Storage.WorkspaceRoot == "" {
		c.Storage.WorkspaceRoot = "."
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.CacheEntries <= 0 {
		c.Storage.CacheEntries = 256
	}
	if c.Results.Orientation == "" {
		c.Results.Orientation = "landscape"
	}
	if c.Results.ConfidenceScore == 0 {
		c.Results.ConfidenceScore = 0.85
	}
}
