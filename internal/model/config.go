package model

import "time"

// Config holds all theyify settings
type Config struct {
	Markers     MarkersConfig     `yaml:"markers" mapstructure:"markers"`
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// MarkersConfig names the tokens that flagged binary pronouns during collection
type MarkersConfig struct {
	Open  string `yaml:"open" mapstructure:"open"`
	Close string `yaml:"close" mapstructure:"close"`
}

// InputConfig describes the layout of the input file
type InputConfig struct {
	Delimiter      string `yaml:"delimiter" mapstructure:"delimiter"`
	OriginalColumn string `yaml:"original_column" mapstructure:"original_column"`
	GoldColumn     string `yaml:"gold_column" mapstructure:"gold_column"`
	IDColumn       string `yaml:"id_column" mapstructure:"id_column"` // Empty means auto-detect
}

// OutputConfig controls optional exports
type OutputConfig struct {
	ExportPath      string `yaml:"export_path" mapstructure:"export_path"` // Empty disables the CSV export
	ExportDelimiter string `yaml:"export_delimiter" mapstructure:"export_delimiter"`
	ReportPath      string `yaml:"report_path" mapstructure:"report_path"` // Empty disables the JSON report
	Verbose         bool   `yaml:"verbose" mapstructure:"verbose"`
}

// CacheConfig controls memoization of stage rewrites
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Markers: MarkersConfig{
			Open:  "<<<",
			Close: ">>>",
		},
		Input: InputConfig{
			Delimiter:      "\t",
			OriginalColumn: "original-text",
			GoldColumn:     "gold-text",
		},
		Output: OutputConfig{
			ExportDelimiter: ",",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
