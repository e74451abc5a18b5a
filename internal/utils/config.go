package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the defaults a user can persist in a YAML file instead
// of repeating flags on every invocation.
type Config struct {
	Connections       int    `yaml:"connections"`
	BufferSize        int    `yaml:"buffer_size"`
	UpdateFrequencyMs int    `yaml:"update_frequency_ms"`
	DestinationDir    string `yaml:"destination_dir"`
	BearerToken       string `yaml:"bearer_token"`
}

func DefaultConfig() Config {
	return Config{
		Connections:       DefaultConnections,
		BufferSize:        DefaultBufferSize,
		UpdateFrequencyMs: DefaultUpdateFrequencyMs,
	}
}

// includes logger
func ReadConfig(filePath string) (Config, error) {
	log := GetLogger("config")
	cfg := DefaultConfig()
	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file: %v", err)
	}
	if cfg.Connections < 1 {
		return cfg, fmt.Errorf("invalid connections value %d", cfg.Connections)
	}
	if cfg.BufferSize < 1 {
		return cfg, fmt.Errorf("invalid buffer_size value %d", cfg.BufferSize)
	}
	if cfg.UpdateFrequencyMs < 1 {
		return cfg, fmt.Errorf("invalid update_frequency_ms value %d", cfg.UpdateFrequencyMs)
	}
	log.Debug().Str("file", filePath).Msg("Config loaded from YAML")
	return cfg, nil
}
