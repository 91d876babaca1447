package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of source configurations
type Loader struct {
	sourcesDir string
}

// NewLoader creates a new configuration loader
func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads all YAML configuration files from the sources directory
func (l *Loader) LoadAll() (map[string]*SourceConfig, error) {
	configs := make(map[string]*SourceConfig)

	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return configs, nil // Return empty map if directory doesn't exist
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs[file] = config
		slog.Debug("Loaded source configuration", "file", file, "kind", config.Source.Kind, "name", config.Source.Name)
	}

	return configs, nil
}

// loadFile loads a single YAML configuration file
func (l *Loader) loadFile(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *SourceConfig) {
	if config.Source.Name == "" {
		config.Source.Name = config.Source.Kind
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 10 // seconds
	}
}

// validate validates the configuration
func (l *Loader) validate(config *SourceConfig) error {
	validKinds := map[string]bool{
		"devto":      true,
		"qiita":      true,
		"hackernews": true,
		"newsapi":    true,
		"rss":        true,
	}

	if config.Source.Kind == "" {
		return fmt.Errorf("source kind is required")
	}
	if !validKinds[config.Source.Kind] {
		return fmt.Errorf("unsupported source kind: %s", config.Source.Kind)
	}
	if config.Source.Kind == "rss" && config.Source.URL == "" {
		return fmt.Errorf("source URL is required for rss sources")
	}

	if config.Settings.Count < 0 || config.Settings.Count > 100 {
		return fmt.Errorf("count must be between 1 and 100")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}
