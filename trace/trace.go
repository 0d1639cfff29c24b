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
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/common"
)

var (
	ErrDuplicateColumn = errors.New("column set twice in one row")
	ErrIncompleteRow   = errors.New("incomplete row")
	ErrUnterminatedRow = errors.New("unterminated row")
	ErrColumnOverflow  = errors.New("value wider than column")
	ErrKindMismatch    = errors.New("column kind mismatch")
)

// ColumnError is raised when a single column write is rejected.
type ColumnError struct {
	Column Column
	Row    int
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("trace: row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// RowError is raised when a row cannot be committed or the trace cannot be
// finalized.
type RowError struct {
	Row     int
	Missing []Column
	Err     error
}

func (e *RowError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("trace: row %d: %v", e.Row, e.Err)
	}
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.String()
	}
	return fmt.Sprintf("trace: row %d: %v, missing %s", e.Row, e.Err, strings.Join(names, ","))
}

func (e *RowError) Unwrap() error { return e.Err }

const allFilled = uint64(1)<<NumColumns - 1

// Trace accumulates rows column by column. Every column of a row must be set
// exactly once before ValidateRow commits it. Violations panic with
// *ColumnError or *RowError.
type Trace struct {
	cols   [NumColumns][]byte
	cur    [NumColumns][32]byte
	filled uint64
	rows   int
}

// New returns a trace with buffers pre-sized for the given number of rows.
func New(rows int) *Trace {
	t := &Trace{}
	for c, h := range headers {
		t.cols[c] = make([]byte, 0, rows*h.Width)
	}
	return t
}

func (t *Trace) set(c Column, kind Kind, v []byte) {
	h := headers[c]
	if h.Kind != kind {
		panic(&ColumnError{Column: c, Row: t.rows, Err: fmt.Errorf("%w: %s column written as %s", ErrKindMismatch, h.Kind, kind)})
	}
	if t.filled&(1<<c) != 0 {
		panic(&ColumnError{Column: c, Row: t.rows, Err: ErrDuplicateColumn})
	}
	if len(v) > h.Width {
		panic(&ColumnError{Column: c, Row: t.rows, Err: fmt.Errorf("%w: %d bytes into %d", ErrColumnOverflow, len(v), h.Width)})
	}
	cell := t.cur[c][:h.Width]
	clear(cell)
	copy(cell[h.Width-len(v):], v)
	t.filled |= 1 << c
}

func (t *Trace) SetUint(c Column, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	t.set(c, Uint, common.TrimLeftZeroes(b[:]))
}

func (t *Trace) SetBool(c Column, v bool) {
	if v {
		t.set(c, Bool, []byte{1})
		return
	}
	t.set(c, Bool, nil)
}

// SetBytes stores v as a big-endian number, left-padded to the column width.
func (t *Trace) SetBytes(c Column, v []byte) {
	t.set(c, Bytes, common.TrimLeftZeroes(v))
}

func (t *Trace) SetU256(c Column, v *uint256.Int) {
	t.set(c, Bytes, v.Bytes())
}

func (t *Trace) missing() []Column {
	var out []Column
	for c := Column(0); c < NumColumns; c++ {
		if t.filled&(1<<c) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// ValidateRow commits the row under construction.
func (t *Trace) ValidateRow() {
	if t.filled != allFilled {
		panic(&RowError{Row: t.rows, Missing: t.missing(), Err: ErrIncompleteRow})
	}
	for c, h := range headers {
		t.cols[c] = append(t.cols[c], t.cur[c][:h.Width]...)
	}
	t.rows++
	t.filled = 0
}

// Size returns the number of committed rows.
func (t *Trace) Size() int {
	if t.filled != 0 {
		panic(&RowError{Row: t.rows, Err: ErrUnterminatedRow})
	}
	return t.rows
}

// Build finalizes the trace. The Trace must not be used afterwards.
func (t *Trace) Build() *Table {
	rows := t.Size()
	tbl := &Table{rows: rows}
	tbl.cols = t.cols
	t.cols = [NumColumns][]byte{}
	return tbl
}
