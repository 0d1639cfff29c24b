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
	"errors"
	"iter"
)

var ErrUnbalancedPop = errors.New("stacked: pop without matching enter")

// List is an append-only arena split into nested segments. Enter opens a
// segment, Pop truncates the arena back to where the last open segment
// started. Items below the truncation point never move.
type List[T any] struct {
	items      []T
	boundaries []int
}

func New[T any]() *List[T] {
	return &List[T]{}
}

func (l *List[T]) Enter() {
	l.boundaries = append(l.boundaries, len(l.items))
}

// Pop discards everything added since the matching Enter and returns the
// number of dropped items. Panics with ErrUnbalancedPop when no segment is open.
func (l *List[T]) Pop() int {
	if len(l.boundaries) == 0 {
		panic(ErrUnbalancedPop)
	}
	last := l.boundaries[len(l.boundaries)-1]
	l.boundaries = l.boundaries[:len(l.boundaries)-1]

	dropped := len(l.items) - last
	clear(l.items[last:])
	l.items = l.items[:last]
	return dropped
}

func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) Len() int   { return len(l.items) }
func (l *List[T]) Depth() int { return len(l.boundaries) }

func (l *List[T]) Get(i int) T { return l.items[i] }

// All iterates every live item in insertion order, across all segments.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}
