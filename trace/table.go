// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package trace

import (
	"encoding/binary"
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/common"
)

// Table is a finalized, read-only column trace. Each column is stored as a
// contiguous run of fixed-width big-endian cells.
type Table struct {
	rows int
	cols [NumColumns][]byte
}

func (t *Table) Len() int { return t.rows }

func (t *Table) Headers() []Header { return Headers() }

// Column returns the raw cells of column c. The slice must not be modified.
func (t *Table) Column(c Column) []byte { return t.cols[c] }

// Cell returns the fixed-width cell of column c at row.
func (t *Table) Cell(c Column, row int) []byte {
	w := headers[c].Width
	return t.cols[c][row*w : (row+1)*w]
}

func (t *Table) Uint(c Column, row int) uint64 {
	cell := common.TrimLeftZeroes(t.Cell(c, row))
	if len(cell) > 8 {
		panic(fmt.Errorf("trace: %s at row %d does not fit in uint64", c, row))
	}
	var b [8]byte
	copy(b[8-len(cell):], cell)
	return binary.BigEndian.Uint64(b[:])
}

func (t *Table) Bool(c Column, row int) bool {
	return t.Cell(c, row)[0] != 0
}

func (t *Table) U256(c Column, row int) *uint256.Int {
	return new(uint256.Int).SetBytes(t.Cell(c, row))
}

// ByteSize is the payload size of the table, headers excluded.
func (t *Table) ByteSize() datasize.ByteSize {
	return datasize.ByteSize(t.rows * RowWidth())
}

// Concat appends tables in order into a new table.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	for _, tbl := range tables {
		out.rows += tbl.rows
	}
	for c, h := range headers {
		out.cols[c] = make([]byte, 0, out.rows*h.Width)
		for _, tbl := range tables {
			out.cols[c] = append(out.cols[c], tbl.cols[c]...)
		}
	}
	return out
}

// FormatCell renders a cell for humans: booleans as 0/1, narrow integers in
// decimal, wide cells in hex without leading zeroes.
func (t *Table) FormatCell(c Column, row int) string {
	h := headers[c]
	switch {
	case h.Kind == Bool:
		if t.Bool(c, row) {
			return "1"
		}
		return "0"
	case h.Width <= 8:
		return fmt.Sprintf("%d", t.Uint(c, row))
	default:
		return t.U256(c, row).Hex()
	}
}
