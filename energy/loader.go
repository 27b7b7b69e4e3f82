package energy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/energydb/db"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/logger"
)

const (
	dropTableSQL  = "DROP TABLE IF EXISTS production"
	insertSQL     = "INSERT INTO production (year, state, source, mwh) VALUES (?, ?, ?, ?)"
	insertRunSQL  = "INSERT INTO load_runs (id, source_path, row_count, loaded_at) VALUES (?, ?, ?, ?)"
	progressEvery = 10000
)

// createTableSQL is the production schema; only the float type varies by dialect.
func createTableSQL(d db.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE production (
	year INTEGER,
	state TEXT,
	source TEXT,
	mwh %s
)`, d.FloatType)
}

// Loader replaces the production table with the contents of a CSV file.
type Loader struct {
	store  *db.Store
	logger *zap.SugaredLogger
	opts   options
}

// NewLoader creates a loader. A nil logger is replaced with a no-op logger.
func NewLoader(store *db.Store, log *zap.SugaredLogger, opts ...Option) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{store: store, logger: log, opts: buildOptions(opts)}
}

// Load drops and recreates the production table and fills it from the CSV
// file at path, all in one transaction. The file is opened before any DDL
// runs, so a bad path never destroys the previous table. Any failure rolls
// the transaction back.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	start := l.opts.clock.Now()
	id := uuid.NewString()
	log := logger.FromContext(logger.WithLoadID(ctx, id), l.logger)

	result, err := l.load(ctx, log, path, id, start)
	if err != nil {
		reason := failureReason(err)
		l.opts.metrics.LoadFailures.WithLabelValues(reason).Inc()
		log.Warnw("Load failed", logger.FieldPath, path, logger.FieldReason, reason, logger.FieldError, err)
		return nil, errors.Wrapf(err, "load %s", path)
	}

	result.Duration = l.opts.clock.Since(start)
	l.opts.metrics.LoadsTotal.Inc()
	l.opts.metrics.RowsLoaded.Add(float64(result.Rows))
	l.opts.metrics.TableRows.Set(float64(result.Rows))
	l.opts.metrics.LoadDuration.Observe(result.Duration.Seconds())

	log.Infow("Load complete",
		logger.FieldPath, result.SourcePath,
		logger.FieldRows, result.Rows,
		logger.FieldDuration, result.Duration,
	)
	return result, nil
}

func (l *Loader) load(ctx context.Context, log *zap.SugaredLogger, path, id string, start time.Time) (*LoadResult, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Execute(ctx, dropTableSQL); err != nil {
		return nil, errors.Wrap(err, "drop production table")
	}
	if _, err := tx.Execute(ctx, createTableSQL(l.store.Dialect)); err != nil {
		return nil, errors.Wrap(err, "create production table")
	}
	log.Debugw("Production table reset", logger.FieldDriver, l.store.Dialect.Name)

	rows, err := insertRecords(ctx, log, tx, NewRecordReader(f))
	if err != nil {
		return nil, err
	}

	run := LoadRun{
		ID:         id,
		SourcePath: absPath(path),
		Rows:       rows,
		LoadedAt:   start.UTC(),
	}
	if _, err := tx.Execute(ctx, insertRunSQL, run.ID, run.SourcePath, run.Rows, run.LoadedAt); err != nil {
		return nil, errors.Wrap(err, "record load run")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &LoadResult{LoadRun: run}, nil
}

func insertRecords(ctx context.Context, log *zap.SugaredLogger, tx *db.Tx, reader *RecordReader) (int, error) {
	insert, err := tx.Prepare(ctx, insertSQL)
	if err != nil {
		return 0, errors.Wrap(err, "prepare insert")
	}
	defer insert.Close()

	rows := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return 0, errors.WithHint(err,
				"each data line must be: year,state,source,megawatthours")
		}

		if _, err := insert.ExecContext(ctx, rec.Year, rec.State, rec.Source, rec.MWh); err != nil {
			return 0, errors.Mark(errors.Wrapf(err, "insert line %d", reader.Line()), ErrStoreUnavailable)
		}
		rows++
		if rows%progressEvery == 0 {
			log.Debugw("Loading", logger.FieldRows, rows)
		}
	}
}

// openInput opens the CSV file, classifying failures as ErrFileAccess.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(
			errors.WithHint(errors.Wrapf(err, "open %s", path), "check the CSV path exists and is readable"),
			ErrFileAccess,
		)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Mark(errors.Wrapf(err, "stat %s", path), ErrFileAccess)
	}
	if info.IsDir() {
		f.Close()
		return nil, errors.Mark(errors.Newf("%s is a directory", path), ErrFileAccess)
	}
	return f, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
