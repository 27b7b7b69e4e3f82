package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/energydb/config"
	"github.com/teranos/energydb/db"
	"github.com/teranos/energydb/energy"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/internal/observability"
	"github.com/teranos/energydb/logger"
)

// settings is the configuration resolved by Setup for the running command.
var settings *config.Config

// flagBindings maps persistent flags to configuration keys.
var flagBindings = map[string]string{
	"db":           "database.path",
	"driver":       "database.driver",
	"verbose":      "log.verbosity",
	"log-json":     "log.json",
	"metrics-file": "metrics.file",
}

// Setup resolves configuration (files, env, flags) and initializes the global
// logger. It runs before every command.
func Setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")

	v, err := config.NewViper(configFile)
	if err != nil {
		return err
	}
	for flagName, key := range flagBindings {
		if f := flags.Lookup(flagName); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "bind --%s", flagName)
			}
		}
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if err := logger.Initialize(cfg.Log.Verbosity, cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	settings = cfg

	logger.Debugw("Configuration resolved",
		"driver", cfg.Database.Driver,
		"verbosity", logger.LevelName(cfg.Log.Verbosity),
	)
	return nil
}

// openDatabase opens and migrates the configured store.
func openDatabase() (*db.Store, error) {
	store, err := db.OpenWithMigrations(settings.Database.Driver, settings.Database.Path, logger.Named("db"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return store, nil
}

// session bundles what a command needs to talk to the store. Close releases
// the store and flushes metrics, and is safe to defer on every path.
type session struct {
	store      *db.Store
	metrics    *observability.Metrics
	loader     *energy.Loader
	aggregator *energy.Aggregator
}

func openSession() (*session, error) {
	store, err := openDatabase()
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetrics()
	return &session{
		store:      store,
		metrics:    metrics,
		loader:     energy.NewLoader(store, logger.Named("loader"), energy.WithMetrics(metrics)),
		aggregator: energy.NewAggregator(store, logger.Named("aggregator"), energy.WithMetrics(metrics)),
	}, nil
}

func (s *session) Close() {
	if path := settings.Metrics.File; path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			logger.Warnw("Metrics not written", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		logger.Warnw("Database close failed", "error", err)
	}
}

func labelledSources(sources []config.SourceLabel) []energy.LabelledSource {
	out := make([]energy.LabelledSource, 0, len(sources))
	for _, s := range sources {
		out = append(out, energy.LabelledSource{Label: s.Label, Source: s.Source})
	}
	return out
}
