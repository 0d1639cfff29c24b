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

package rlptxn

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erigontech/rlptxn/types"
)

// CodeOracle answers whether an account holds deployed code in the state the
// transaction executes against.
type CodeOracle interface {
	HasCode(addr common.Address) bool
}

// CodeIndexer hands out identifiers for the init code a deployment runs and
// later resolves them to their position in the code fragment table.
type CodeIndexer interface {
	CodeIdentifier(tx types.Transaction) int
	CodeFragmentIndex(id int) int
}

// StaticCodeOracle is a fixed set of accounts with code.
type StaticCodeOracle struct {
	withCode map[common.Address]struct{}
}

func NewStaticCodeOracle(addrs ...common.Address) *StaticCodeOracle {
	o := &StaticCodeOracle{withCode: make(map[common.Address]struct{}, len(addrs))}
	for _, addr := range addrs {
		o.withCode[addr] = struct{}{}
	}
	return o
}

func (o *StaticCodeOracle) HasCode(addr common.Address) bool {
	_, ok := o.withCode[addr]
	return ok
}

// CachedCodeOracle remembers the answers of a slower oracle. A conflation
// usually hits the same few contracts over and over.
type CachedCodeOracle struct {
	inner CodeOracle
	cache *lru.Cache[common.Address, bool]
}

func NewCachedCodeOracle(inner CodeOracle, size int) (*CachedCodeOracle, error) {
	cache, err := lru.New[common.Address, bool](size)
	if err != nil {
		return nil, err
	}
	return &CachedCodeOracle{inner: inner, cache: cache}, nil
}

func (o *CachedCodeOracle) HasCode(addr common.Address) bool {
	if hasCode, ok := o.cache.Get(addr); ok {
		return hasCode
	}
	hasCode := o.inner.HasCode(addr)
	o.cache.Add(addr, hasCode)
	return hasCode
}

// SequentialCodeIndex numbers executed code in arrival order, starting at 1,
// and uses the number as the fragment index.
type SequentialCodeIndex struct {
	mu   sync.Mutex
	next int
}

func (s *SequentialCodeIndex) CodeIdentifier(types.Transaction) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

func (s *SequentialCodeIndex) CodeFragmentIndex(id int) int { return id }
