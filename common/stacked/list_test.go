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

package stacked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect[T any](l *List[T]) []T {
	var out []T
	for _, v := range l.All() {
		out = append(out, v)
	}
	return out
}

func TestEnterPop(t *testing.T) {
	l := New[int]()
	l.Add(1)

	l.Enter()
	l.Add(2)
	l.Enter()
	l.Add(3)
	l.Add(4)
	require.Equal(t, []int{1, 2, 3, 4}, collect(l))
	require.Equal(t, 2, l.Depth())

	require.Equal(t, 2, l.Pop())
	require.Equal(t, []int{1, 2}, collect(l))

	l.Add(5)
	require.Equal(t, 2, l.Pop())
	require.Equal(t, []int{1}, collect(l))
	require.Equal(t, 0, l.Depth())
	require.Equal(t, 1, l.Get(0))
}

func TestPopEmptySegment(t *testing.T) {
	l := New[string]()
	l.Add("a")
	l.Enter()
	require.Equal(t, 0, l.Pop())
	require.Equal(t, 1, l.Len())
}

func TestUnbalancedPop(t *testing.T) {
	l := New[int]()
	l.Enter()
	l.Pop()
	require.PanicsWithValue(t, ErrUnbalancedPop, func() { l.Pop() })
}

func TestAllStopsEarly(t *testing.T) {
	l := New[int]()
	for i := range 5 {
		l.Add(i)
	}
	seen := 0
	for i := range l.All() {
		if i == 2 {
			break
		}
		seen++
	}
	require.Equal(t, 2, seen)
}
