package energy

import "time"

// ProductionRecord is one row of the input file and of the production table.
type ProductionRecord struct {
	Year   int
	State  string
	Source string
	MWh    float64
}

// LoadRun describes one successful load, as recorded in load_runs.
type LoadRun struct {
	ID         string
	SourcePath string
	Rows       int
	LoadedAt   time.Time
}

// LoadResult is returned by Loader.Load.
type LoadResult struct {
	LoadRun
	Duration time.Duration
}

// SourceTotal is the summed production of one source in one year.
type SourceTotal struct {
	Source string
	MWh    float64
}
