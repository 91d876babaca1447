package config

// SourceConfig represents a complete article source configuration
type SourceConfig struct {
	Source   SourceInfo     `yaml:"source"`
	Settings SourceSettings `yaml:"settings"`
}

// SourceInfo contains basic source information
type SourceInfo struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourceSettings contains source fetch settings. Count of 0 inherits
// the run-level per-source count; Tag is the default query when a run
// names no category.
type SourceSettings struct {
	Enabled bool   `yaml:"enabled"`
	Count   int    `yaml:"count"`
	Tag     string `yaml:"tag"`
	Country string `yaml:"country"`
	Timeout int    `yaml:"timeout"` // seconds
}
