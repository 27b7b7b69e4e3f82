// Package config loads energydb settings with Viper.
//
// Precedence (lowest to highest): defaults, ~/.energydb/energydb.toml,
// ./energydb.toml (or an explicit --config file), ENERGYDB_* environment
// variables, command-line flags.
package config

// Config represents the energydb configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Report   ReportConfig   `mapstructure:"report" toml:"report"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics"`
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" toml:"driver"` // sqlite3 or pgx
	Path   string `mapstructure:"path" toml:"path"`     // file path for sqlite3, DSN for pgx
}

// ReportConfig controls the default report printed after a load.
type ReportConfig struct {
	Year    int           `mapstructure:"year" toml:"year"`
	Sources []SourceLabel `mapstructure:"sources" toml:"sources"`
}

// SourceLabel maps a short report label to the exact source string stored in
// the production table.
type SourceLabel struct {
	Label  string `mapstructure:"label" toml:"label"`
	Source string `mapstructure:"source" toml:"source"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"`
}

// MetricsConfig configures the Prometheus textfile export. Empty File disables it.
type MetricsConfig struct {
	File string `mapstructure:"file" toml:"file"`
}
