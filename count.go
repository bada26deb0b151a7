package csvtidy

import (
	"github.com/pkg/errors"
)

// DefaultExpectedRows is the number of data rows each file is expected to hold.
const DefaultExpectedRows = 100

// Count is the data-row count of one file.
type Count struct {
	Path     string
	Rows     int
	Expected int
	Err      error
}

// Diff is Rows minus Expected.
func (c Count) Diff() int { return c.Rows - c.Expected }

// CountReport aggregates Counts over a list of files.
type CountReport struct {
	Counts []Count
	// Expected is the per-file expectation every Count was compared against.
	Expected int
}

// Total sums the rows of every file that could be counted.
func (r CountReport) Total() int {
	total := 0
	for _, c := range r.Counts {
		if c.Err == nil {
			total += c.Rows
		}
	}
	return total
}

// ExpectedTotal is Expected times the number of listed files.
func (r CountReport) ExpectedTotal() int { return r.Expected * len(r.Counts) }

// Difference is Total minus ExpectedTotal.
func (r CountReport) Difference() int { return r.Total() - r.ExpectedTotal() }

// Failed counts files that could not be counted.
func (r CountReport) Failed() int {
	n := 0
	for _, c := range r.Counts {
		if c.Err != nil {
			n++
		}
	}
	return n
}

// CountRows returns the number of data rows in the CSV file at path, excluding the
// header. An empty file has zero rows.
func CountRows(path string) (int, error) {
	doc, _, err := Options{LazyQuotes: true}.load(path)
	if errors.Is(err, ErrEmptyDocument) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.DataRows(), nil
}

// CountFiles counts every path, comparing each against expected rows. A
// non-positive expected uses DefaultExpectedRows.
func CountFiles(paths []string, expected int) CountReport {
	if expected <= 0 {
		expected = DefaultExpectedRows
	}
	rep := CountReport{Counts: make([]Count, 0, len(paths)), Expected: expected}
	for _, path := range paths {
		rows, err := CountRows(path)
		rep.Counts = append(rep.Counts, Count{Path: path, Rows: rows, Expected: expected, Err: err})
	}
	return rep
}
