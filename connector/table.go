// SPDX-License-Identifier: MIT

package connector

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Table is a connector table in whole seconds.
type Table struct {
	Origin []uint32
	Dest   []uint32
	Walk   []uint32
	Wait   []uint32
}

func newTable(n int) *Table {
	return &Table{
		Origin: make([]uint32, n),
		Dest:   make([]uint32, n),
		Walk:   make([]uint32, n),
		Wait:   make([]uint32, n),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Origin) }

// shift adds dOrigin and dDest to every node id in place.
func (t *Table) shift(dOrigin, dDest uint32) {
	for k := range t.Origin {
		t.Origin[k] += dOrigin
		t.Dest[k] += dDest
	}
}

// Offsets describes the shared node id space: stop visits first, then
// origins, then destinations.
type Offsets struct {
	Stops        int
	Origins      int
	Destinations int
}

// OriginNode returns the node id of origin i.
func (o Offsets) OriginNode(i int) uint32 { return uint32(o.Stops + i) }

// DestinationNode returns the node id of destination j.
func (o Offsets) DestinationNode(j int) uint32 { return uint32(o.Stops + o.Origins + j) }

// NodeCount returns the size of the node id space.
func (o Offsets) NodeCount() int { return o.Stops + o.Origins + o.Destinations }

// Connectors is the output of Builder.Build with node ids already offset.
type Connectors struct {
	Transfer *Table
	Access   *Table
	Egress   *Table
	Offsets  Offsets
}

var tableHeader = []string{"onode", "dnode", "walk", "wait"}

// WriteCSV encodes t as onode,dnode,walk,wait.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	row := make([]string, 4)
	for k := 0; k < t.Len(); k++ {
		row[0] = strconv.FormatUint(uint64(t.Origin[k]), 10)
		row[1] = strconv.FormatUint(uint64(t.Dest[k]), 10)
		row[2] = strconv.FormatUint(uint64(t.Walk[k]), 10)
		row[3] = strconv.FormatUint(uint64(t.Wait[k]), 10)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadCSV decodes a table written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("connector: read table: %w", err)
	}
	if len(rec) == 0 {
		return newTable(0), nil
	}
	for i, c := range tableHeader {
		if i >= len(rec[0]) || rec[0][i] != c {
			return nil, fmt.Errorf("connector: unexpected header %v", rec[0])
		}
	}

	t := newTable(len(rec) - 1)
	cols := [4][]uint32{t.Origin, t.Dest, t.Walk, t.Wait}
	var v uint64
	for line, row := range rec[1:] {
		for c := range cols {
			if v, err = strconv.ParseUint(row[c], 10, 32); err != nil {
				return nil, fmt.Errorf("connector: line %d column %s: %w", line+2, tableHeader[c], err)
			}
			cols[c][line] = uint32(v)
		}
	}

	return t, nil
}
