// SPDX-License-Identifier: MIT

package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Labeled is a Dense whose rows and columns are addressed by unique labels.
type Labeled struct {
	rows, cols     []string
	rowIdx, colIdx map[string]int
	dense          *Dense
}

// NewLabeled allocates a len(rows)×len(cols) matrix. opts set the numeric
// policy of the backing Dense.
//
// Errors:
//   - ErrInvalidDimensions for empty label sets.
//   - ErrDuplicateLabel when a label repeats within rows or within cols.
func NewLabeled(rows, cols []string, opts ...Option) (*Labeled, error) {
	d, err := NewDense(len(rows), len(cols), opts...)
	if err != nil {
		return nil, err
	}
	rowIdx, err := indexLabels(rows)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	colIdx, err := indexLabels(cols)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}

	return &Labeled{
		rows:   append([]string(nil), rows...),
		cols:   append([]string(nil), cols...),
		rowIdx: rowIdx,
		colIdx: colIdx,
		dense:  d,
	}, nil
}

func indexLabels(labels []string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		idx[l] = i
	}
	return idx, nil
}

// RowLabels returns the row labels in order.
func (l *Labeled) RowLabels() []string { return append([]string(nil), l.rows...) }

// ColLabels returns the column labels in order.
func (l *Labeled) ColLabels() []string { return append([]string(nil), l.cols...) }

// Dense exposes the backing storage, indexed by label position.
func (l *Labeled) Dense() *Dense { return l.dense }

// Get returns the cell at (row label, col label).
func (l *Labeled) Get(row, col string) (float64, error) {
	i, j, err := l.locate(row, col)
	if err != nil {
		return 0, err
	}
	return l.dense.At(i, j)
}

// Put stores v at (row label, col label).
func (l *Labeled) Put(row, col string, v float64) error {
	i, j, err := l.locate(row, col)
	if err != nil {
		return err
	}
	return l.dense.Set(i, j, v)
}

func (l *Labeled) locate(row, col string) (int, int, error) {
	i, ok := l.rowIdx[row]
	if !ok {
		return 0, 0, fmt.Errorf("%w: row %q", ErrUnknownLabel, row)
	}
	j, ok := l.colIdx[col]
	if !ok {
		return 0, 0, fmt.Errorf("%w: col %q", ErrUnknownLabel, col)
	}
	return i, j, nil
}

// CSV cell spellings for the non-finite values of a skim.
const (
	csvInf = "inf"
	csvNaN = ""
)

// WriteCSV writes a header (corner then column labels) followed by one line
// per row: the row label, then the cells. +Inf is written as "inf" and NaN
// as an empty cell.
func (l *Labeled) WriteCSV(w io.Writer, corner string) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0, len(l.cols)+1)
	rec = append(rec, corner)
	rec = append(rec, l.cols...)
	if err := cw.Write(rec); err != nil {
		return err
	}

	var v float64
	for i, label := range l.rows {
		rec = rec[:0]
		rec = append(rec, label)
		for j := range l.cols {
			v = l.dense.data[i*l.dense.c+j]
			rec = append(rec, formatCell(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

func formatCell(v float64) string {
	switch {
	case math.IsNaN(v):
		return csvNaN
	case math.IsInf(v, 1):
		return csvInf
	case math.IsInf(v, -1):
		return "-" + csvInf
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
