package energy

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/energydb/db"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/internal/observability"
	energytest "github.com/teranos/energydb/internal/testing"
)

func loadedStore(t *testing.T, rows ...string) *db.Store {
	t.Helper()
	store := energytest.CreateTestStore(t)
	_, err := NewLoader(store, nil).Load(context.Background(), energytest.WriteCSV(t, rows...))
	require.NoError(t, err)
	return store
}

func TestTotalProduction(t *testing.T) {
	store := loadedStore(t,
		"2017,CA,Wind,100.0",
		"2017,TX,Wind,50.0",
		"2016,TX,Wind,999.0",
		"2017,TX,Coal,7.0",
	)
	agg := NewAggregator(store, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		source string
		year   int
		want   float64
	}{
		{name: "sums every matching row", source: "Wind", year: 2017, want: 150.0},
		{name: "filters by year", source: "Wind", year: 2016, want: 999.0},
		{name: "single row", source: "Coal", year: 2017, want: 7.0},
		{name: "unknown source is zero", source: "Nonexistent Source", year: 1999, want: 0.0},
		{name: "source match is case-sensitive", source: "wind", year: 2017, want: 0.0},
		{name: "source match is full-string", source: "Win", year: 2017, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.TotalProduction(ctx, tt.source, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalProduction_SampleFile(t *testing.T) {
	store := energytest.CreateTestStore(t)
	ctx := context.Background()
	_, err := NewLoader(store, nil).Load(ctx, "testdata/energy_sample.csv")
	require.NoError(t, err)

	agg := NewAggregator(store, nil)

	solar, err := agg.TotalProduction(ctx, "Solar Thermal and Photovoltaic", 2017)
	require.NoError(t, err)
	assert.Equal(t, 26595383.0, solar)

	wind, err := agg.TotalProduction(ctx, "Wind", 2017)
	require.NoError(t, err)
	assert.Equal(t, 101363754.0, wind)
}

func TestTotalProduction_BeforeAnyLoad(t *testing.T) {
	agg := NewAggregator(energytest.CreateTestStore(t), nil)

	_, err := agg.TotalProduction(context.Background(), "Wind", 2017)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Contains(t, errors.FlattenHints(err), "energydb load")
}

func TestTotalProduction_Metrics(t *testing.T) {
	store := loadedStore(t, "2017,CA,Wind,100.0")
	metrics := observability.NewMetrics()
	agg := NewAggregator(store, nil, WithMetrics(metrics))

	_, err := agg.TotalProduction(context.Background(), "Wind", 2017)
	require.NoError(t, err)
	_, err = agg.TotalProduction(context.Background(), "Solar Thermal and Photovoltaic", 2017)
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues("error")))
}

func TestTotalProduction_AccumulatesEveryRow(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"mwh"}).
		AddRow(100.0).
		AddRow(nil).
		AddRow(50.0).
		AddRow(0.25)
	mock.ExpectQuery(`SELECT mwh FROM production WHERE source = \? AND year = \?`).
		WithArgs("Wind", 2017).
		WillReturnRows(rows)

	agg := NewAggregator(db.NewStore(mockDB, db.SQLite), nil)
	total, err := agg.TotalProduction(context.Background(), "Wind", 2017)
	require.NoError(t, err)
	assert.Equal(t, 150.25, total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalProduction_StoreFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT mwh FROM production`).WillReturnError(errors.New("connection refused"))

	agg := NewAggregator(db.NewStore(mockDB, db.SQLite), nil)
	_, err = agg.TotalProduction(context.Background(), "Wind", 2017)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Contains(t, err.Error(), `total production for "Wind" in 2017`)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalProduction_RowError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"mwh"}).
		AddRow(1.0).
		AddRow(2.0).
		RowError(1, errors.New("corrupt page"))
	mock.ExpectQuery(`SELECT mwh FROM production`).WillReturnRows(rows)

	agg := NewAggregator(db.NewStore(mockDB, db.SQLite), nil)
	_, err = agg.TotalProduction(context.Background(), "Wind", 2017)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "corrupt page")
}

func TestCount(t *testing.T) {
	store := loadedStore(t, "2017,CA,Wind,100.0", "2017,TX,Wind,50.0")

	n, err := NewAggregator(store, nil).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSourceTotals(t *testing.T) {
	store := loadedStore(t,
		"2017,CA,Wind,100.0",
		"2017,TX,Wind,50.0",
		"2017,CA,Solar Thermal and Photovoltaic,20.0",
		"2016,TX,Coal,999.0",
	)

	totals, err := NewAggregator(store, nil).SourceTotals(context.Background(), 2017)
	require.NoError(t, err)
	assert.Equal(t, []SourceTotal{
		{Source: "Solar Thermal and Photovoltaic", MWh: 20},
		{Source: "Wind", MWh: 150},
	}, totals)

	none, err := NewAggregator(store, nil).SourceTotals(context.Background(), 1970)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCountAndSourceTotals_BeforeAnyLoad(t *testing.T) {
	agg := NewAggregator(energytest.CreateTestStore(t), nil)
	ctx := context.Background()

	n, err := agg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	totals, err := agg.SourceTotals(ctx, 2017)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestLastLoad_None(t *testing.T) {
	last, err := NewAggregator(energytest.CreateTestStore(t), nil).LastLoad(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}
