package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultDriver       = "sqlite3"
	DefaultDatabasePath = "example.db"
	DefaultReportYear   = 2017
)

// DefaultSources are the labelled sources reported when none are configured.
var DefaultSources = []SourceLabel{
	{Label: "solar", Source: "Solar Thermal and Photovoltaic"},
	{Label: "wind", Source: "Wind"},
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("report.year", DefaultReportYear)
	sources := make([]map[string]interface{}, 0, len(DefaultSources))
	for _, s := range DefaultSources {
		sources = append(sources, map[string]interface{}{"label": s.Label, "source": s.Source})
	}
	v.SetDefault("report.sources", sources)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("metrics.file", "")
}
