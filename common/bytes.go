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

package common

import (
	"fmt"

	"github.com/holiman/uint256"
)

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return
}

// LeftPadBytes zero-extends b on the left to exactly width bytes.
// It panics if b does not fit.
func LeftPadBytes(b []byte, width int) []byte {
	if len(b) > width {
		panic(fmt.Errorf("LeftPadBytes: %d bytes do not fit in %d", len(b), width))
	}
	padded := make([]byte, width)
	copy(padded[width-len(b):], b)
	return padded
}

// RightPadBytes zero-extends b on the right to exactly width bytes.
// It panics if b does not fit.
func RightPadBytes(b []byte, width int) []byte {
	if len(b) > width {
		panic(fmt.Errorf("RightPadBytes: %d bytes do not fit in %d", len(b), width))
	}
	padded := make([]byte, width)
	copy(padded, b)
	return padded
}

// TrimLeftZeroes strips leading zero bytes. The result aliases s.
func TrimLeftZeroes(s []byte) []byte {
	idx := 0
	for ; idx < len(s); idx++ {
		if s[idx] != 0 {
			break
		}
	}
	return s[idx:]
}

// MinimalBigEndian is the shortest big-endian form of v, empty for zero.
func MinimalBigEndian(v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return []byte{}
	}
	return v.Bytes()
}

func MinimalBigEndianU64(v uint64) []byte {
	if v == 0 {
		return []byte{}
	}
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return CopyBytes(TrimLeftZeroes(b[:]))
}

// ByteLenU64 is len(MinimalBigEndianU64(v)) without the allocation.
func ByteLenU64(v uint64) int {
	n := 0
	for ; v > 0; v >>= 8 {
		n++
	}
	return n
}
