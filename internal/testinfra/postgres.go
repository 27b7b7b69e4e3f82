// Package testinfra starts throwaway databases for integration tests.
package testinfra

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/teranos/energydb/errors"
)

const (
	PostgresImage    = "postgres:16-alpine"
	PostgresUser     = "energydb"
	PostgresPassword = "energydb"
	PostgresDB       = "energydb"
)

// PostgresContainer is a running PostgreSQL container and its DSN.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres starts a PostgreSQL container and waits until it accepts
// connections. Callers must Terminate it.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start postgres")
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, errors.Wrap(err, "get connection string")
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
