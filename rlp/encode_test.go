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
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInt(t *testing.T) {
	for _, v := range []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 21000, 1 << 40, ^uint64(0)} {
		var w bytes.Buffer
		var buf [33]byte
		require.NoError(t, EncodeInt(v, &w, buf[:]))

		expected, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err)
		assert.Equal(t, expected, w.Bytes(), "value %d", v)
		assert.Len(t, expected, 1+IntLenExcludingHead(v), "value %d", v)
	}
}

func TestEncodeUint256(t *testing.T) {
	values := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(0x7f),
		uint256.NewInt(0x80),
		new(uint256.Int).Lsh(uint256.NewInt(1), 100),
		new(uint256.Int).SetAllOne(),
	}
	for _, v := range values {
		var w bytes.Buffer
		var buf [33]byte
		require.NoError(t, EncodeUint256(v, &w, buf[:]))

		expected, err := gethrlp.EncodeToBytes(v.ToBig())
		require.NoError(t, err)
		assert.Equal(t, expected, w.Bytes(), "value %s", v.Hex())
		assert.Len(t, expected, 1+Uint256LenExcludingHead(v))
	}
}

func TestEncodeString(t *testing.T) {
	assert := assert.New(t)
	cases := map[string][]byte{
		"empty":     {},
		"small":     {0x05},
		"zero byte": {0x00},
		"high byte": {0x80},
		"55 bytes":  bytes.Repeat([]byte{0xaa}, 55),
		"56 bytes":  bytes.Repeat([]byte{0xaa}, 56),
		"300 bytes": bytes.Repeat([]byte{0x01}, 300),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			var w bytes.Buffer
			var buf [33]byte
			require.NoError(t, EncodeString(s, &w, buf[:]))

			expected, err := gethrlp.EncodeToBytes(s)
			require.NoError(t, err)
			assert.Equal(expected, w.Bytes())
			assert.Equal(len(expected), StringLen(s))
		})
	}
}

func TestEncodeStructSizePrefix(t *testing.T) {
	for _, n := range []int{0, 3, 55, 56, 255, 256, 70000} {
		var w bytes.Buffer
		var buf [33]byte
		require.NoError(t, EncodeStructSizePrefix(n, &w, buf[:]))
		require.Len(t, w.Bytes(), ListPrefixLen(n))

		payload := bytes.Repeat([]byte{0x01}, n)
		list := make([]uint8, len(payload))
		copy(list, payload)
		expected, err := gethrlp.EncodeToBytes(list)
		require.NoError(t, err)
		// a []uint8 encodes as a string, so only the prefix length matches;
		// the base differs by 0x40
		require.Equal(t, expected[0]+0x40, w.Bytes()[0], "size %d", n)
		require.Equal(t, expected[1:ListPrefixLen(n)], w.Bytes()[1:], "size %d", n)
	}
}

func TestEncodeOptionalAddress(t *testing.T) {
	var w bytes.Buffer
	var buf [33]byte
	require.NoError(t, EncodeOptionalAddress(nil, &w, buf[:]))
	require.Equal(t, []byte{0x80}, w.Bytes())

	w.Reset()
	addr := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	require.NoError(t, EncodeOptionalAddress(&addr, &w, buf[:]))
	expected, err := gethrlp.EncodeToBytes(addr)
	require.NoError(t, err)
	require.Equal(t, expected, w.Bytes())

	w.Reset()
	h := common.HexToHash("0x01")
	require.NoError(t, EncodeHash(h, &w, buf[:]))
	expected, err = gethrlp.EncodeToBytes(h)
	require.NoError(t, err)
	require.Equal(t, expected, w.Bytes())
}
