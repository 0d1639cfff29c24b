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

package rlp

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Writer-style helpers. Every Encode* function writes its output to w and
// uses buffer as scratch space; buffer must hold at least 33 bytes.
//
// Length helpers come in two flavours: *Len returns the full encoded size,
// *LenExcludingHead returns the size minus the one mandatory byte, so callers
// can write `size += 1 + IntLenExcludingHead(x)`.

const (
	ShortStringBase = 0x80
	LongStringBase  = 0xb7
	ShortListBase   = 0xc0
	LongListBase    = 0xf7
)

func beLen(n uint64) int {
	return (bits.Len64(n) + 7) / 8
}

func ListPrefixLen(dataLen int) int {
	if dataLen >= 56 {
		return 1 + beLen(uint64(dataLen))
	}
	return 1
}

func StringPrefixLen(dataLen int) int { return ListPrefixLen(dataLen) }

// StringLen is the encoded size of s, prefix included.
func StringLen(s []byte) int {
	if len(s) == 1 && s[0] < ShortStringBase {
		return 1
	}
	return StringPrefixLen(len(s)) + len(s)
}

func IntLenExcludingHead(i uint64) int {
	if i < ShortStringBase {
		return 0
	}
	return beLen(i)
}

func Uint256LenExcludingHead(i *uint256.Int) int {
	bitLen := i.BitLen()
	if bitLen < 8 {
		return 0
	}
	return (bitLen + 7) / 8
}

func encodePrefix(size int, base byte, w io.Writer, buffer []byte) error {
	if size >= 56 {
		n := beLen(uint64(size))
		binary.BigEndian.PutUint64(buffer[1:], uint64(size))
		buffer[8-n] = base + 55 + byte(n)
		_, err := w.Write(buffer[8-n : 9])
		return err
	}
	buffer[0] = base + byte(size)
	_, err := w.Write(buffer[:1])
	return err
}

// EncodeStructSizePrefix writes the list header for a payload of size bytes.
func EncodeStructSizePrefix(size int, w io.Writer, buffer []byte) error {
	return encodePrefix(size, ShortListBase, w, buffer)
}

// EncodeStringSizePrefix writes the string header for a payload of size bytes.
func EncodeStringSizePrefix(size int, w io.Writer, buffer []byte) error {
	return encodePrefix(size, ShortStringBase, w, buffer)
}

func EncodeString(s []byte, w io.Writer, buffer []byte) error {
	if len(s) == 1 && s[0] < ShortStringBase {
		buffer[0] = s[0]
		_, err := w.Write(buffer[:1])
		return err
	}
	if err := EncodeStringSizePrefix(len(s), w, buffer); err != nil {
		return err
	}
	_, err := w.Write(s)
	return err
}

func EncodeInt(i uint64, w io.Writer, buffer []byte) error {
	switch {
	case i == 0:
		buffer[0] = ShortStringBase
		_, err := w.Write(buffer[:1])
		return err
	case i < ShortStringBase:
		buffer[0] = byte(i)
		_, err := w.Write(buffer[:1])
		return err
	}
	n := beLen(i)
	buffer[0] = ShortStringBase + byte(n)
	binary.BigEndian.PutUint64(buffer[1:], i)
	copy(buffer[1:], buffer[1+8-n:9])
	_, err := w.Write(buffer[:1+n])
	return err
}

func EncodeUint256(i *uint256.Int, w io.Writer, buffer []byte) error {
	if i.IsUint64() {
		return EncodeInt(i.Uint64(), w, buffer)
	}
	b := i.Bytes()
	n := len(b)
	buffer[0] = ShortStringBase + byte(n)
	copy(buffer[1:], b)
	_, err := w.Write(buffer[:1+n])
	return err
}

// EncodeOptionalAddress writes the address as a 20-byte string, or the empty
// string for a nil address.
func EncodeOptionalAddress(addr *common.Address, w io.Writer, buffer []byte) error {
	if addr == nil {
		buffer[0] = ShortStringBase
	} else {
		buffer[0] = ShortStringBase + common.AddressLength
	}
	if _, err := w.Write(buffer[:1]); err != nil {
		return err
	}
	if addr == nil {
		return nil
	}
	_, err := w.Write(addr[:])
	return err
}

func EncodeHash(h common.Hash, w io.Writer, buffer []byte) error {
	buffer[0] = ShortStringBase + common.HashLength
	copy(buffer[1:33], h[:])
	_, err := w.Write(buffer[:33])
	return err
}
