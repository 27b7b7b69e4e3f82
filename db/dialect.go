package db

import (
	"strconv"
	"strings"

	"github.com/teranos/energydb/errors"
)

// Dialect captures the few SQL differences between supported drivers.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string
	// FloatType is the column type used for float64 values.
	FloatType string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

var (
	// SQLite is the embedded default (github.com/mattn/go-sqlite3).
	SQLite = Dialect{Name: "sqlite3", FloatType: "REAL"}
	// Postgres uses pgx's database/sql adapter. REAL is float4 there, so
	// float columns are declared DOUBLE PRECISION.
	Postgres = Dialect{Name: "pgx", FloatType: "DOUBLE PRECISION", numbered: true}
)

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Name, "sqlite":
		return SQLite, nil
	case Postgres.Name, "postgres", "postgresql":
		return Postgres, nil
	default:
		return Dialect{}, errors.Newf("unsupported database driver %q", driver)
	}
}

// Rebind rewrites ? placeholders for drivers that use numbered parameters.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
