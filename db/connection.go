package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/energydb/errors"
)

// SQLiteBusyTimeoutMS is how long SQLite waits on a locked database.
const SQLiteBusyTimeoutMS = 5000

// Store is the relational backing for energydb: a database handle plus the
// dialect its statements are written in. Statements use ? placeholders and
// are rebound per dialect.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewStore wraps an already-open handle. Tests use it with sqlmock.
func NewStore(database *sql.DB, dialect Dialect) *Store {
	return &Store{DB: database, Dialect: dialect}
}

// Open opens the store for driver at path (a file path or :memory: for
// sqlite3, a DSN for pgx). If logger is provided, logs database operations;
// otherwise operates silently.
func Open(driver, path string, logger *zap.SugaredLogger) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, errors.Mark(err, ErrStoreUnavailable)
	}
	if logger != nil {
		logger.Debugw("Opening database", "driver", dialect.Name, "path", redact(dialect, path))
	}

	database, err := sql.Open(dialect.Name, path)
	if err != nil {
		return nil, unavailable(err, "failed to open database")
	}

	if dialect == SQLite {
		if err := configureSQLite(database); err != nil {
			database.Close()
			return nil, err
		}
	} else if err := database.Ping(); err != nil {
		database.Close()
		return nil, errors.WithHint(unavailable(err, "failed to connect"), "check database.path is a reachable PostgreSQL DSN")
	}

	if logger != nil {
		logger.Infow("Database opened", "driver", dialect.Name, "path", redact(dialect, path))
	}
	return NewStore(database, dialect), nil
}

// OpenWithMigrations opens the store and applies pending migrations.
func OpenWithMigrations(driver, path string, logger *zap.SugaredLogger) (*Store, error) {
	store, err := Open(driver, path, logger)
	if err != nil {
		return nil, err
	}
	if err := Migrate(store, logger); err != nil {
		store.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", redact(store.Dialect, path))
	}
	return store, nil
}

func configureSQLite(database *sql.DB) error {
	// One connection: :memory: databases are per-connection, and there is
	// only ever one writer.
	database.SetMaxOpenConns(1)

	// Enable WAL mode for durable single-writer commits
	if _, err := database.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return unavailable(err, "failed to enable WAL mode")
	}
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return unavailable(err, "failed to enable foreign keys")
	}
	if _, err := database.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS)); err != nil {
		return unavailable(err, "failed to set busy timeout")
	}
	return nil
}

// redact hides DSN credentials from logs.
func redact(d Dialect, path string) string {
	if d == SQLite {
		return path
	}
	return "<dsn>"
}

// Execute runs a DDL/DML statement and reports rows affected.
func (s *Store) Execute(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(stmt), args...)
	if err != nil {
		return 0, unavailable(err, "execute")
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report it for DDL; that is not a failure.
		return 0, nil
	}
	return n, nil
}

// Query runs a read statement. The caller closes the rows.
func (s *Store) Query(ctx context.Context, stmt string, args ...interface{}) (*sql.Rows, error) {
	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(stmt), args...)
	if err != nil {
		return nil, unavailable(err, "query")
	}
	return rows, nil
}

// QueryRow runs a statement expected to return at most one row.
func (s *Store) QueryRow(ctx context.Context, stmt string, args ...interface{}) *sql.Row {
	return s.DB.QueryRowContext(ctx, s.Dialect.Rebind(stmt), args...)
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable(err, "begin transaction")
	}
	return &Tx{tx: tx, dialect: s.Dialect}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return unavailable(err, "close")
	}
	return nil
}

// Tx is a transaction bound to a dialect.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
	done    bool
}

// Execute runs a statement inside the transaction.
func (t *Tx) Execute(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	res, err := t.tx.ExecContext(ctx, t.dialect.Rebind(stmt), args...)
	if err != nil {
		return 0, unavailable(err, "execute")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Prepare compiles stmt for repeated execution inside the transaction.
func (t *Tx) Prepare(ctx context.Context, stmt string) (*sql.Stmt, error) {
	prepared, err := t.tx.PrepareContext(ctx, t.dialect.Rebind(stmt))
	if err != nil {
		return nil, unavailable(err, "prepare")
	}
	return prepared, nil
}

// Commit makes the transaction's writes durable.
func (t *Tx) Commit() error {
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return unavailable(err, "commit")
	}
	return nil
}

// Rollback aborts the transaction. It is a no-op after Commit or a previous
// Rollback, so it can be deferred unconditionally.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return unavailable(err, "rollback")
	}
	return nil
}
