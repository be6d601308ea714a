package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML file passed with --config.
type Config struct {
	MaxCallDepth int            `yaml:"max_call_depth"`
	HistoryFile  string         `yaml:"history_file"`
	Trace        bool           `yaml:"trace"`
	Globals      map[string]any `yaml:"globals"`
}

// loadConfig reads path; an empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxCallDepth < 0 {
		return cfg, fmt.Errorf("parse config %s: max_call_depth must not be negative", path)
	}
	return cfg, nil
}

func (c Config) historyPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
