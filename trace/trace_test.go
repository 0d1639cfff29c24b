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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillRow sets every column except the skipped ones.
func fillRow(tr *Trace, v uint64, skip ...Column) {
	skipped := map[Column]bool{}
	for _, c := range skip {
		skipped[c] = true
	}
	for c := Column(0); c < NumColumns; c++ {
		if skipped[c] {
			continue
		}
		switch c.Header().Kind {
		case Bool:
			tr.SetBool(c, v%2 == 1)
		case Uint:
			tr.SetUint(c, v%256)
		case Bytes:
			tr.SetU256(c, uint256.NewInt(v))
		}
	}
}

func catchPanic(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(error)
		}
	}()
	f()
	return nil
}

func TestHeaders(t *testing.T) {
	h := Headers()
	require.Len(t, h, 58)
	require.Equal(t, "ABS_TX_NUM", h[0].Name)
	require.Equal(t, "TYPE", h[len(h)-1].Name)
	for p := 0; p < NumPhases; p++ {
		require.Equal(t, Bool, PhaseColumn(p).Header().Kind)
	}
	c, ok := ColumnByName("nKEYS_PER_ADDR")
	require.True(t, ok)
	require.Equal(t, NKeysPerAddr, c)

	for _, hdr := range h {
		require.Contains(t, []int{1, 2, 4, 8, 32}, hdr.Width, hdr.Name)
	}
}

func TestRowLifecycle(t *testing.T) {
	tr := New(2)
	fillRow(tr, 3)
	tr.ValidateRow()
	fillRow(tr, 4)
	tr.ValidateRow()
	require.Equal(t, 2, tr.Size())

	tbl := tr.Build()
	assert := assert.New(t)
	assert.Equal(2, tbl.Len())
	assert.True(tbl.Bool(Done, 0))
	assert.False(tbl.Bool(Done, 1))
	assert.Equal(uint64(3), tbl.Uint(AbsTxNum, 0))
	assert.Equal(uint64(4), tbl.U256(Limb, 1).Uint64())
	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 3}, tbl.Cell(AbsTxNum, 0))
	assert.Len(tbl.Column(Limb), 64)
	assert.Equal("1", tbl.FormatCell(Done, 0))
	assert.Equal("0x4", tbl.FormatCell(Limb, 1))
	assert.EqualValues(2*RowWidth(), tbl.ByteSize())
}

func TestDuplicateColumn(t *testing.T) {
	tr := New(1)
	tr.SetUint(Counter, 1)
	err := catchPanic(func() { tr.SetUint(Counter, 2) })
	require.ErrorIs(t, err, ErrDuplicateColumn)

	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	require.Equal(t, Counter, colErr.Column)
}

func TestIncompleteRowNamesMissingColumns(t *testing.T) {
	tr := New(1)
	fillRow(tr, 1, Limb, PhaseEnd)
	err := catchPanic(tr.ValidateRow)
	require.ErrorIs(t, err, ErrIncompleteRow)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	if diff := cmp.Diff([]Column{Limb, PhaseEnd}, rowErr.Missing); diff != "" {
		t.Fatalf("missing columns mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, err.Error(), "LIMB,PHASE_END")
}

func TestUnterminatedRow(t *testing.T) {
	tr := New(1)
	tr.SetBool(Lt, true)
	require.ErrorIs(t, catchPanic(func() { tr.Size() }), ErrUnterminatedRow)
	require.ErrorIs(t, catchPanic(func() { tr.Build() }), ErrUnterminatedRow)
}

func TestColumnOverflowAndKind(t *testing.T) {
	tr := New(1)
	require.ErrorIs(t, catchPanic(func() { tr.SetUint(Counter, 1<<16) }), ErrColumnOverflow)
	require.ErrorIs(t, catchPanic(func() { tr.SetBytes(AddrHi, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0}) }), ErrColumnOverflow)
	require.ErrorIs(t, catchPanic(func() { tr.SetBool(Counter, true) }), ErrKindMismatch)

	// leading zeroes do not count towards the width
	tr.SetBytes(AddrHi, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0xde, 0xad})
	tr.SetUint(Counter, 1<<16-1)
}

func TestConcat(t *testing.T) {
	build := func(vals ...uint64) *Table {
		tr := New(len(vals))
		for _, v := range vals {
			fillRow(tr, v)
			tr.ValidateRow()
		}
		return tr.Build()
	}
	joined := Concat(build(1, 2), build(), build(3))
	require.Equal(t, 3, joined.Len())
	for row, v := range []uint64{1, 2, 3} {
		require.Equal(t, v, joined.Uint(AbsTxNum, row))
	}
	if diff := cmp.Diff(build(1, 2, 3).cols, joined.cols); diff != "" {
		t.Fatalf("concat mismatch:\n%s", diff)
	}
}

func TestFileRoundTrip(t *testing.T) {
	tr := New(3)
	for v := uint64(10); v < 13; v++ {
		fillRow(tr, v)
		tr.ValidateRow()
	}
	tbl := tr.Build()

	path := filepath.Join(t.TempDir(), "rlptxn.trace")
	require.NoError(t, WriteFile(path, tbl))
	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Len(), back.Len())
	if diff := cmp.Diff(tbl.cols, back.cols); diff != "" {
		t.Fatalf("file round trip mismatch:\n%s", diff)
	}
}

func TestFileEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.trace")
	require.NoError(t, WriteFile(path, New(0).Build()))
	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, back.Len())
}

func TestFileRejectsCorruptHeader(t *testing.T) {
	tr := New(1)
	fillRow(tr, 1)
	tr.ValidateRow()

	path := filepath.Join(t.TempDir(), "bad.trace")
	require.NoError(t, WriteFile(path, tr.Build()))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	back, err := ReadFile(path)
	require.ErrorIs(t, err, ErrBadTraceFile)
	require.Nil(t, back)

	// the mapping is released after a failed read
	raw[0] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	back, err = ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, back.Len())
}
