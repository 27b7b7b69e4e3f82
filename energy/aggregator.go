package energy

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/energydb/db"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/logger"
)

const (
	totalSQL        = "SELECT mwh FROM production WHERE source = ? AND year = ?"
	countSQL        = "SELECT COUNT(*) FROM production"
	sourceTotalsSQL = "SELECT source, SUM(mwh) FROM production WHERE year = ? GROUP BY source ORDER BY source"
	lastLoadSQL     = "SELECT id, source_path, row_count, loaded_at FROM load_runs ORDER BY loaded_at DESC LIMIT 1"
)

// Aggregator answers read-only questions about the loaded production table.
type Aggregator struct {
	store  *db.Store
	logger *zap.SugaredLogger
	opts   options
}

// NewAggregator creates an aggregator. A nil logger is replaced with a no-op logger.
func NewAggregator(store *db.Store, log *zap.SugaredLogger, opts ...Option) *Aggregator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Aggregator{store: store, logger: log, opts: buildOptions(opts)}
}

// TotalProduction sums megawatt-hours over every record whose source matches
// exactly (case-sensitive) and whose year equals year. No matching rows is
// not an error: the total is 0.
func (a *Aggregator) TotalProduction(ctx context.Context, source string, year int) (float64, error) {
	total, err := a.totalProduction(ctx, source, year)
	if err != nil {
		a.opts.metrics.QueriesTotal.WithLabelValues("error").Inc()
		return 0, errors.Wrapf(hintIfUnloaded(err), "total production for %q in %d", source, year)
	}
	a.opts.metrics.QueriesTotal.WithLabelValues("ok").Inc()
	a.logger.Debugw("Total production", logger.FieldSource, source, logger.FieldYear, year, logger.FieldMWh, total)
	return total, nil
}

func (a *Aggregator) totalProduction(ctx context.Context, source string, year int) (float64, error) {
	rows, err := a.store.Query(ctx, totalSQL, source, year)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total float64
	for rows.Next() {
		var mwh sql.NullFloat64
		if err := rows.Scan(&mwh); err != nil {
			return 0, errors.Mark(errors.Wrap(err, "scan mwh"), ErrStoreUnavailable)
		}
		if mwh.Valid {
			total += mwh.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return 0, errors.Mark(errors.Wrap(err, "iterate rows"), ErrStoreUnavailable)
	}
	return total, nil
}

// Count returns the number of rows in the production table. Before the
// first load the table does not exist and the count is 0.
func (a *Aggregator) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.store.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		if isUnloaded(err) {
			return 0, nil
		}
		return 0, errors.Mark(errors.Wrap(err, "count production rows"), ErrStoreUnavailable)
	}
	return n, nil
}

// SourceTotals returns per-source production for year, ordered by source.
// Before the first load the result is empty.
func (a *Aggregator) SourceTotals(ctx context.Context, year int) ([]SourceTotal, error) {
	rows, err := a.store.Query(ctx, sourceTotalsSQL, year)
	if err != nil {
		if isUnloaded(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "source totals for %d", year)
	}
	defer rows.Close()

	var totals []SourceTotal
	for rows.Next() {
		var (
			source string
			mwh    sql.NullFloat64
		)
		if err := rows.Scan(&source, &mwh); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "scan source total"), ErrStoreUnavailable)
		}
		totals = append(totals, SourceTotal{Source: source, MWh: mwh.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "iterate source totals"), ErrStoreUnavailable)
	}
	return totals, nil
}

// LastLoad returns the most recent successful load, or nil if there has been none.
func (a *Aggregator) LastLoad(ctx context.Context) (*LoadRun, error) {
	var run LoadRun
	err := a.store.QueryRow(ctx, lastLoadSQL).Scan(&run.ID, &run.SourcePath, &run.Rows, &run.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read last load"), ErrStoreUnavailable)
	}
	return &run, nil
}

// isUnloaded reports whether err says the production table has never been created.
func isUnloaded(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "production") && strings.Contains(msg, "does not exist"))
}

// hintIfUnloaded adds a hint when the production table has never been created.
func hintIfUnloaded(err error) error {
	if isUnloaded(err) {
		return errors.WithHint(err, "load a CSV file first: energydb load <file>")
	}
	return err
}
