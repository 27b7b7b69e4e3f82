package energy

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/energydb/errors"
)

// Columns of the input file, in order.
var Columns = []string{"Year", "State", "Energy Source", "Megawatthours"}

// RecordReader reads ProductionRecords from CSV input, skipping the header line.
// Quoted fields are honoured, so sources containing commas survive. A blank
// line between records is a malformed row; blank lines after the last record
// are ignored.
type RecordReader struct {
	csv        *csv.Reader
	line       int
	lastLine   int // input line on which the previous record ended
	seenHeader bool
}

// NewRecordReader returns a reader over r.
func NewRecordReader(r io.Reader) *RecordReader {
	cr := csv.NewReader(r)
	// Field count is checked per record so the error can name the columns.
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &RecordReader{csv: cr}
}

// Line returns the input line of the record most recently returned by Next.
func (r *RecordReader) Line() int {
	return r.line
}

// Next returns the next data record, or io.EOF after the last one. An empty
// input (no header) yields io.EOF immediately.
func (r *RecordReader) Next() (ProductionRecord, error) {
	if !r.seenHeader {
		r.seenHeader = true
		header, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				return ProductionRecord{}, io.EOF
			}
			return ProductionRecord{}, malformedCSV(err)
		}
		r.lastLine = r.endLine(header)
	}

	fields, err := r.csv.Read()
	if err == io.EOF {
		return ProductionRecord{}, io.EOF
	}
	if err != nil {
		return ProductionRecord{}, malformedCSV(err)
	}
	r.line, _ = r.csv.FieldPos(0)
	if r.line > r.lastLine+1 {
		// encoding/csv drops empty lines; report the first one as a row
		// with no fields.
		r.line = r.lastLine + 1
		_, err := ParseRecord(nil, r.line)
		return ProductionRecord{}, errors.WithHint(err, "remove blank lines between records")
	}
	r.lastLine = r.endLine(fields)
	return ParseRecord(fields, r.line)
}

// endLine returns the input line on which record ends. Quoted fields may
// span lines; their newlines are kept in the field value.
func (r *RecordReader) endLine(record []string) int {
	last := len(record) - 1
	line, _ := r.csv.FieldPos(last)
	return line + strings.Count(record[last], "\n")
}

// ParseRecord converts the four fields of one data line. line is used only
// in error messages.
func ParseRecord(fields []string, line int) (ProductionRecord, error) {
	if len(fields) != len(Columns) {
		return ProductionRecord{}, errors.Mark(
			errors.Newf("line %d: expected %d fields (%s), got %d",
				line, len(Columns), strings.Join(Columns, ", "), len(fields)),
			ErrMalformedRow,
		)
	}

	yearField := strings.TrimSpace(fields[0])
	year, err := strconv.Atoi(yearField)
	if err != nil {
		return ProductionRecord{}, errors.Mark(
			errors.Newf("line %d: year %q is not an integer", line, yearField),
			ErrMalformedRow,
		)
	}

	mwhField := strings.TrimSpace(fields[3])
	mwh, err := strconv.ParseFloat(mwhField, 64)
	if err != nil {
		return ProductionRecord{}, errors.Mark(
			errors.Newf("line %d: megawatthours %q is not a number", line, mwhField),
			ErrMalformedRow,
		)
	}
	if math.IsNaN(mwh) || math.IsInf(mwh, 0) {
		return ProductionRecord{}, errors.Mark(
			errors.Newf("line %d: megawatthours %q is not a finite number", line, mwhField),
			ErrMalformedRow,
		)
	}

	return ProductionRecord{
		Year:   year,
		State:  strings.TrimSpace(fields[1]),
		Source: strings.TrimSpace(fields[2]),
		MWh:    mwh,
	}, nil
}

// malformedCSV classifies encoding/csv syntax errors (bad quoting) as
// malformed rows. The csv.ParseError message already names the line.
func malformedCSV(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return errors.Mark(errors.WithStack(err), ErrMalformedRow)
	}
	return errors.Mark(errors.Wrap(err, "read input"), ErrFileAccess)
}
