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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalBigEndian(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(MinimalBigEndian(uint256.NewInt(0)))
	assert.Empty(MinimalBigEndian(nil))
	assert.Equal([]byte{0x7f}, MinimalBigEndian(uint256.NewInt(0x7f)))
	assert.Equal([]byte{0x01, 0x00}, MinimalBigEndian(uint256.NewInt(256)))

	assert.Empty(MinimalBigEndianU64(0))
	assert.Equal([]byte{0x52, 0x08}, MinimalBigEndianU64(21000))
	assert.Equal([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, MinimalBigEndianU64(^uint64(0)))

	for _, v := range []uint64{0, 1, 255, 256, 65535, 1 << 40, ^uint64(0)} {
		assert.Len(MinimalBigEndianU64(v), ByteLenU64(v))
	}
}

func TestPadding(t *testing.T) {
	require.Equal(t, []byte{0, 0, 1, 2}, LeftPadBytes([]byte{1, 2}, 4))
	require.Equal(t, []byte{1, 2, 0, 0}, RightPadBytes([]byte{1, 2}, 4))
	require.Equal(t, []byte{0, 0}, LeftPadBytes(nil, 2))
	require.Equal(t, []byte{1, 2}, RightPadBytes([]byte{1, 2}, 2))

	require.Panics(t, func() { LeftPadBytes([]byte{1, 2, 3}, 2) })
	require.Panics(t, func() { RightPadBytes([]byte{1, 2, 3}, 2) })
}

func TestTrimLeftZeroes(t *testing.T) {
	require.Equal(t, []byte{1, 0}, TrimLeftZeroes([]byte{0, 0, 1, 0}))
	require.Empty(t, TrimLeftZeroes([]byte{0, 0}))
}
