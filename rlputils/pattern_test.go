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

package rlputils

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pow256(n uint64) uint256.Int {
	var p uint256.Int
	p.Exp(uint256.NewInt(256), uint256.NewInt(n))
	return p
}

func TestByteCounting(t *testing.T) {
	assert := assert.New(t)

	out := ByteCounting(2, 8)
	assert.Equal([]int{0, 0, 0, 0, 0, 0, 1, 2}, out.AccByteSize)
	for i, e := range []uint64{9, 10, 11, 12, 13, 14, 14, 14} {
		expected := pow256(e)
		assert.True(expected.Eq(&out.Power[i]), "step %d", i)
	}

	full := ByteCounting(8, 8)
	assert.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}, full.AccByteSize)
	last := pow256(8)
	assert.True(last.Eq(&full.Power[7]))

	limb := ByteCounting(16, 16)
	assert.True(limb.Power[15].Eq(uint256.NewInt(1)))
	assert.Equal(16, limb.AccByteSize[15])

	empty := ByteCounting(0, 8)
	assert.Equal(make([]int, 8), empty.AccByteSize)
	top := pow256(16)
	assert.True(top.Eq(&empty.Power[7]))
}

func TestByteCountingFinalWeight(t *testing.T) {
	for nbStep := 1; nbStep <= LLarge; nbStep++ {
		for occupied := 1; occupied <= nbStep; occupied++ {
			out := ByteCounting(occupied, nbStep)
			expected := pow256(uint64(LLarge - occupied))
			require.True(t, expected.Eq(&out.Power[nbStep-1]), "occupied %d nbStep %d", occupied, nbStep)
			require.Equal(t, occupied, out.AccByteSize[nbStep-1])
		}
	}
}

func TestByteCountingContract(t *testing.T) {
	require.Panics(t, func() { ByteCounting(9, 8) })
	require.Panics(t, func() { ByteCounting(1, 17) })
}

func TestBitDecomposition(t *testing.T) {
	out := BitDecomposition(0xa5, 8)
	require.Equal(t, []bool{true, false, true, false, false, true, false, true}, out.Bits)
	require.Equal(t, []uint8{1, 2, 5, 10, 20, 41, 82, 165}, out.BitAcc)

	wide := BitDecomposition(0x01, 16)
	require.Len(t, wide.Bits, 16)
	for i := 0; i < 15; i++ {
		require.False(t, wide.Bits[i])
		require.Zero(t, wide.BitAcc[i])
	}
	require.True(t, wide.Bits[15])
	require.Equal(t, uint8(1), wide.BitAcc[15])

	require.Panics(t, func() { BitDecomposition(1, 7) })
}

func TestRlpSize(t *testing.T) {
	for _, n := range []int{0, 1, 55, 56, 57, 255, 256, 65535, 65536, 1 << 24} {
		require.Equal(t, n, InnerRlpSize(OuterRlpSize(n)), "n=%d", n)
	}
	require.Equal(t, 56, OuterRlpSize(55))
	require.Equal(t, 58, OuterRlpSize(56))
	require.Panics(t, func() { InnerRlpSize(57) })
}
