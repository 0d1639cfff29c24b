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

// Package rlputils holds the per-step witness patterns shared by the RLP
// arithmetization modules.
package rlputils

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/rlp"
)

// LLarge is the byte width of one limb.
const LLarge = 16

// ByteCountAndPower holds, for each step of a window, how many bytes of the
// right-aligned value have been seen and the base-256 weight of the position.
type ByteCountAndPower struct {
	AccByteSize []int
	Power       []uint256.Int
}

var base = uint256.NewInt(256)

// ByteCounting describes a value occupying `occupied` bytes right-aligned in
// a window of nbStep positions. Weights are relative to a 16-byte limb: the
// last step carries 256^(16-occupied).
func ByteCounting(occupied, nbStep int) ByteCountAndPower {
	if nbStep > LLarge || nbStep <= 0 {
		panic(fmt.Errorf("ByteCounting: window of %d steps", nbStep))
	}
	if occupied > nbStep || occupied < 0 {
		panic(fmt.Errorf("ByteCounting: %d bytes do not fit in %d steps", occupied, nbStep))
	}
	out := ByteCountAndPower{
		AccByteSize: make([]int, nbStep),
		Power:       make([]uint256.Int, nbStep),
	}

	offset := LLarge - nbStep
	var power uint256.Int
	acc := 0
	if occupied == nbStep {
		power.Exp(base, uint256.NewInt(uint64(offset)))
		acc = 1
	} else {
		power.Exp(base, uint256.NewInt(uint64(offset+1)))
	}
	out.AccByteSize[0] = acc
	out.Power[0] = power

	for i := 1; i < nbStep; i++ {
		if occupied+i < nbStep {
			power.Mul(&power, base)
		} else {
			acc++
		}
		out.AccByteSize[i] = acc
		out.Power[i] = power
	}
	return out
}

// BitDecOutput is the MSB-first decomposition of one byte spread over the
// last 8 steps of a window, with the running value of the bits read so far.
type BitDecOutput struct {
	Bits   []bool
	BitAcc []uint8
}

func BitDecomposition(b byte, nbStep int) BitDecOutput {
	if nbStep < 8 {
		panic(fmt.Errorf("BitDecomposition: window of %d steps is shorter than a byte", nbStep))
	}
	out := BitDecOutput{
		Bits:   make([]bool, nbStep),
		BitAcc: make([]uint8, nbStep),
	}
	var acc uint8
	for i := 0; i < 8; i++ {
		bit := (b>>(7-i))&1 == 1
		acc <<= 1
		if bit {
			acc |= 1
		}
		out.Bits[nbStep-8+i] = bit
		out.BitAcc[nbStep-8+i] = acc
	}
	return out
}

// OuterRlpSize is the size of an RLP item whose payload has n bytes.
func OuterRlpSize(n int) int {
	return rlp.ListPrefixLen(n) + n
}

// InnerRlpSize inverts OuterRlpSize for well-formed encodings.
func InnerRlpSize(outer int) int {
	if outer < 1 {
		panic(fmt.Errorf("InnerRlpSize: %d", outer))
	}
	if outer <= 56 {
		return outer - 1
	}
	for n := 1; n <= 8; n++ {
		inner := outer - 1 - n
		if inner >= 56 && rlp.ListPrefixLen(inner) == 1+n {
			return inner
		}
	}
	panic(fmt.Errorf("InnerRlpSize: no payload encodes to %d bytes", outer))
}
