package energy

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// LabelledSource pairs a short report label with the exact stored source name.
type LabelledSource struct {
	Label  string
	Source string
}

// WriteReport prints one line per source with its total production in year:
//
//	Total wind production in 2017:  254303190.0
func WriteReport(ctx context.Context, w io.Writer, agg *Aggregator, year int, sources []LabelledSource) error {
	for _, s := range sources {
		total, err := agg.TotalProduction(ctx, s.Source, year)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Total %s production in %d:  %s\n", s.Label, year, FormatMWh(total)); err != nil {
			return err
		}
	}
	return nil
}

// FormatMWh renders v as the shortest decimal that round-trips, always with a
// fractional part ("150.0", not "150"), switching to exponent form outside
// [1e-4, 1e16).
func FormatMWh(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
