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
	"os"

	"github.com/edsrzf/mmap-go"
)

var (
	fileMagic = [8]byte{'R', 'L', 'P', 'T', 'X', 'N', 0x00, 0x01}

	ErrBadTraceFile = errors.New("not a trace file")
)

func headerSize() int {
	size := len(fileMagic) + 4
	for _, h := range headers {
		size += 2 + len(h.Name) + 1
	}
	return size + 4
}

// FileSize is the exact size WriteFile produces for a table of the given rows.
func FileSize(rows int) int {
	return headerSize() + rows*RowWidth()
}

// WriteFile writes the table to path. The file is sized up front and filled
// through a writable memory mapping.
func WriteFile(path string, t *Table) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	size := FileSize(t.rows)
	if err = f.Truncate(int64(size)); err != nil {
		return fmt.Errorf("sizing %s: %w", path, err)
	}
	m, err := mmap.MapRegion(f, size, mmap.RDWR, 0, 0)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", path, err)
	}
	defer func() {
		if unmapErr := m.Unmap(); unmapErr != nil && err == nil {
			err = unmapErr
		}
	}()

	pos := copy(m, fileMagic[:])
	binary.BigEndian.PutUint32(m[pos:], uint32(NumColumns))
	pos += 4
	for _, h := range headers {
		binary.BigEndian.PutUint16(m[pos:], uint16(len(h.Name)))
		pos += 2
		pos += copy(m[pos:], h.Name)
		m[pos] = byte(h.Width)
		pos++
	}
	binary.BigEndian.PutUint32(m[pos:], uint32(t.rows))
	pos += 4
	for c := range headers {
		pos += copy(m[pos:], t.cols[c])
	}
	if pos != size {
		return fmt.Errorf("trace file %s: wrote %d of %d bytes", path, pos, size)
	}
	return m.Flush()
}

// ReadFile loads a table written by WriteFile. The column layout must match
// the one compiled into this binary.
func ReadFile(path string) (tbl *Table, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer func() {
		if unmapErr := m.Unmap(); unmapErr != nil && err == nil {
			tbl, err = nil, unmapErr
		}
	}()

	if len(m) < headerSize() || [8]byte(m[:8]) != fileMagic {
		return nil, fmt.Errorf("%s: %w", path, ErrBadTraceFile)
	}
	pos := len(fileMagic)
	if n := binary.BigEndian.Uint32(m[pos:]); n != uint32(NumColumns) {
		return nil, fmt.Errorf("%s: %w: %d columns", path, ErrBadTraceFile, n)
	}
	pos += 4
	for _, h := range headers {
		nameLen := int(binary.BigEndian.Uint16(m[pos:]))
		pos += 2
		if pos+nameLen+1 > len(m) {
			return nil, fmt.Errorf("%s: %w: truncated header", path, ErrBadTraceFile)
		}
		name := string(m[pos : pos+nameLen])
		pos += nameLen
		width := int(m[pos])
		pos++
		if name != h.Name || width != h.Width {
			return nil, fmt.Errorf("%s: %w: column %s/%d, expected %s/%d", path, ErrBadTraceFile, name, width, h.Name, h.Width)
		}
	}
	t := &Table{rows: int(binary.BigEndian.Uint32(m[pos:]))}
	pos += 4
	if len(m) != FileSize(t.rows) {
		return nil, fmt.Errorf("%s: %w: size %d for %d rows", path, ErrBadTraceFile, len(m), t.rows)
	}
	for c, h := range headers {
		n := t.rows * h.Width
		t.cols[c] = make([]byte, n)
		pos += copy(t.cols[c], m[pos:pos+n])
	}
	return t, nil
}
