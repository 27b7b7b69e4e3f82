package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/energydb/energy"
	"github.com/teranos/energydb/errors"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// isolate points HOME and the working directory at empty temp dirs so no
// real energydb.toml leaks into a test, and returns a database path.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENERGYDB_DATABASE_PATH", "")
	t.Setenv("ENERGYDB_DATABASE_DRIVER", "")
	dir := t.TempDir()
	t.Chdir(dir)
	return filepath.Join(dir, "energy.db")
}

func samplePath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "energy", "testdata", "energy_sample.csv"))
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_PrintsReport(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)

	out, err := execute(t, sample, "--db", dbPath)
	require.NoError(t, err)

	assert.Equal(t,
		"Total solar production in 2017:  26595383.0\n"+
			"Total wind production in 2017:  101363754.0\n",
		out)
	assert.FileExists(t, dbPath)
}

func TestRoot_RerunIsIdempotent(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)

	first, err := execute(t, sample, "--db", dbPath)
	require.NoError(t, err)
	second, err := execute(t, sample, "--db", dbPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRoot_MissingFile(t *testing.T) {
	dbPath := isolate(t)

	_, err := execute(t, filepath.Join(t.TempDir(), "nope.csv"), "--db", dbPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, energy.ErrFileAccess))
	assert.Contains(t, errors.UserMessage(err), "Hint:")
}

func TestRoot_RequiresOneArgument(t *testing.T) {
	dbPath := isolate(t)

	_, err := execute(t, "--db", dbPath)
	assert.Error(t, err)
}

func TestRoot_ConfigFileSources(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)

	cfg := `[report]
year = 2016

[[report.sources]]
label = "wind"
source = "Wind"
`
	require.NoError(t, os.WriteFile("energydb.toml", []byte(cfg), 0o644))

	out, err := execute(t, sample, "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Total wind production in 2016:  13499958.0\n", out)
}

func TestLoadThenTotal(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)

	out, err := execute(t, "load", sample, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 12 records")

	out, err = execute(t, "total", "--source", "Wind", "--year", "2017", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "101363754.0\n", out)

	out, err = execute(t, "total", "--source", "wind", "--year", "2017", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "0.0\n", out, "source match is case-sensitive")
}

func TestStats(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)

	_, err := execute(t, "load", sample, "--db", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "stats", "--year", "2017", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Records:      12")
	assert.Contains(t, out, "energy_sample.csv")
	assert.Contains(t, out, "Solar Thermal and Photovoltaic")
	assert.Contains(t, out, "101363754.0")
}

func TestStats_BeforeAnyLoad(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "stats", "--year", "2017", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Records:      0")
	assert.NotContains(t, out, "Last load:")
	assert.Contains(t, out, "No records for 2017")
}

func TestConfigCommand(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "config", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[database]")
	assert.Contains(t, out, dbPath)
	assert.Contains(t, out, "Solar Thermal and Photovoltaic")
}

func TestMetricsFile(t *testing.T) {
	sample := samplePath(t)
	dbPath := isolate(t)
	metricsPath := filepath.Join(t.TempDir(), "energydb.prom")

	_, err := execute(t, "load", sample, "--db", dbPath, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "energydb_rows_loaded_total 12")
}
