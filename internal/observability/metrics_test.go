package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_FreshRegistry(t *testing.T) {
	// Two instances must not collide.
	a := NewMetrics()
	b := NewMetrics()

	a.RowsLoaded.Add(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(a.RowsLoaded))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.RowsLoaded))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsLoaded.Add(42)
	m.LoadFailures.WithLabelValues(ReasonMalformedRow).Inc()

	path := filepath.Join(t.TempDir(), "energydb.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "energydb_rows_loaded_total 42")
	assert.Contains(t, out, `energydb_load_failures_total{reason="malformed_row"} 1`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	err := NewMetrics().WriteTextfile("/nonexistent/dir/energydb.prom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}
