// Package csvread streams delimited claim files as header-mapped rows.
// The delimiter is sniffed once per file and applied to every row.
package csvread

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
)

// Reader streams one delimited file, yielding each data row as a
// column-name → value map in input order. It is a forward-only,
// non-restartable sequence.
type Reader struct {
	csv    *csv.Reader
	header []string
	rowNum int
}

// Open sniffs the delimiter from the input's first bytes, reads the
// header line, and returns a streaming Reader.
func Open(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	// Skip UTF-8 BOM if present.
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	sample, err := br.Peek(sniffSize)
	if err != nil && len(sample) == 0 {
		return nil, fmt.Errorf("read sample: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = Sniff(sample)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	return &Reader{csv: cr, header: header}, nil
}

// Header returns the column names from the first line.
func (r *Reader) Header() []string {
	return r.header
}

// HasColumn reports whether the header contains the named column.
// Column names are matched exactly, as in the source files.
func (r *Reader) HasColumn(name string) bool {
	for _, h := range r.header {
		if h == name {
			return true
		}
	}
	return false
}

// Read returns the next data row as a map plus its 1-based row number,
// or io.EOF when the file is exhausted. Short rows leave columns absent
// from the map; extra fields beyond the header are dropped.
func (r *Reader) Read() (map[string]string, int, error) {
	rec, err := r.csv.Read()
	if err == io.EOF {
		return nil, 0, io.EOF
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read row %d: %w", r.rowNum+1, err)
	}

	r.rowNum++
	row := make(map[string]string, len(r.header))
	for i, col := range r.header {
		if i < len(rec) {
			row[col] = rec[i]
		}
	}
	return row, r.rowNum, nil
}
