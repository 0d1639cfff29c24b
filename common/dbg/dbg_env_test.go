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

package dbg

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestEnvLookup(t *testing.T) {
	t.Setenv("RLPTXN_TEST_INT", "1_000")
	t.Setenv("RLPTXN_TEST_SIZE", "2MB")
	t.Setenv("RLPTXN_TEST_STR", "x")

	require.Equal(t, 1000, EnvInt("TEST_INT", 7))
	require.Equal(t, 7, EnvInt("TEST_MISSING", 7))
	require.Equal(t, 2*datasize.MB, EnvDataSize("TEST_SIZE", 0))
	require.Equal(t, "x", EnvString("TEST_STR", "y"))
	require.Equal(t, "y", EnvString("TEST_MISSING", "y"))
}

func TestMustParseInt(t *testing.T) {
	require.Equal(t, int64(-12), MustParseInt("-1_2"))
	require.Panics(t, func() { MustParseInt("abc") })
}
