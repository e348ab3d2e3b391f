package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configEnvVar = "LOX_CONFIG"

// hostConfig holds the settings shared by the run and repl commands.
type hostConfig struct {
	Color        bool
	CodeFrames   bool
	Prompt       string
	HistoryLimit int
}

// configFile mirrors the YAML layout. Pointer fields tell an absent key
// apart from an explicit zero value.
type configFile struct {
	Color        *bool   `yaml:"color"`
	CodeFrames   *bool   `yaml:"code_frames"`
	Prompt       *string `yaml:"prompt"`
	HistoryLimit *int    `yaml:"history_limit"`
}

func defaultConfig() hostConfig {
	return hostConfig{
		Color:        true,
		CodeFrames:   false,
		Prompt:       "lox> ",
		HistoryLimit: 500,
	}
}

// loadConfig reads the config named by path, falling back to $LOX_CONFIG.
// With neither set it returns the defaults.
func loadConfig(path string) (hostConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		return cfg, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	raw.applyTo(&cfg)
	if err := cfg.validate(); err != nil {
		return defaultConfig(), fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

func (raw configFile) applyTo(cfg *hostConfig) {
	if raw.Color != nil {
		cfg.Color = *raw.Color
	}
	if raw.CodeFrames != nil {
		cfg.CodeFrames = *raw.CodeFrames
	}
	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	if raw.HistoryLimit != nil {
		cfg.HistoryLimit = *raw.HistoryLimit
	}
}

func (cfg hostConfig) validate() error {
	if cfg.Prompt == "" {
		return errors.New("prompt must be a non-empty string")
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", cfg.HistoryLimit)
	}
	return nil
}
