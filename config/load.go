package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/teranos/energydb/errors"
)

// FileName is the config file searched for in the user and project directories.
const FileName = "energydb.toml"

// EnvPrefix prefixes every environment override, e.g. ENERGYDB_DATABASE_PATH.
const EnvPrefix = "ENERGYDB"

// NewViper builds a Viper instance with defaults, config files and environment
// bindings applied. If configFile is non-empty it replaces the project file
// search and must exist.
func NewViper(configFile string) (*viper.Viper, error) {
	// A .env file in the working directory is optional.
	_ = godotenv.Load()

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := mergeConfigFiles(v, configFile); err != nil {
		return nil, err
	}
	return v, nil
}

// Load reads the configuration using a fresh Viper instance.
func Load(configFile string) (*Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late, after a load.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		return errors.WithHint(
			errors.Newf("unsupported database driver %q", c.Database.Driver),
			"set database.driver to sqlite3 or pgx",
		)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	for i, s := range c.Report.Sources {
		if s.Label == "" || s.Source == "" {
			return errors.Newf("report.sources[%d] needs both label and source", i)
		}
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config")
	}
	return buf.String(), nil
}

// mergeConfigFiles merges configuration files in precedence order:
// user < project (or explicit file). Environment variables still win because
// AutomaticEnv is consulted on every Get.
func mergeConfigFiles(v *viper.Viper, configFile string) error {
	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".energydb", FileName))
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "config file %s", configFile),
				"pass an existing file to --config or omit the flag",
			)
		}
		paths = append(paths, configFile)
	} else {
		paths = append(paths, FileName)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", path)
		}
	}
	return nil
}
