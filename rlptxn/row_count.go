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
	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/types"
)

func intRows(v *uint256.Int, nStep int) int {
	if v == nil || v.IsZero() {
		return 1
	}
	return nStep
}

func u64Rows(v uint64) int {
	if v == 0 {
		return 1
	}
	return prefixSteps
}

// ChunkRowSize is the exact number of rows traceChunk emits for tx.
func ChunkRowSize(tx types.Transaction) int {
	// type row and the two outer list headers
	rows := 1 + 2*prefixSteps

	switch t := tx.(type) {
	case *types.LegacyTx:
		rows += intRows(t.GetGasPrice(), prefixSteps)
	case *types.AccessListTx:
		rows += intRows(t.GetChainID(), prefixSteps)
		rows += intRows(t.GetGasPrice(), prefixSteps)
	case *types.DynamicFeeTransaction:
		rows += intRows(t.GetChainID(), prefixSteps)
		rows += intRows(t.GetTipCap(), prefixSteps)
		rows += intRows(t.GetFeeCap(), prefixSteps)
	}
	rows += u64Rows(tx.GetNonce())
	rows += u64Rows(tx.GetGasLimit())

	if tx.GetTo() == nil {
		rows++
	} else {
		rows += llarge
	}
	rows += intRows(tx.GetValue(), llarge)

	if n := len(tx.GetData()); n == 0 {
		rows += 2
	} else {
		rows += prefixSteps + llarge*((n-1)/llarge+1) + 2
	}

	_, r, s := tx.RawSignatureValues()
	if legacy, ok := tx.(*types.LegacyTx); ok {
		rows += prefixSteps
		if legacy.Protected() {
			rows += intRows(legacy.GetChainID(), prefixSteps) + 1
		}
	} else {
		rows += accessListRows(tx.GetAccessList())
		// y
		rows++
	}

	rows += intRows(r, llarge)
	rows += intRows(s, llarge)
	return rows
}

func accessListRows(al types.AccessList) int {
	if len(al) == 0 {
		return 1
	}
	rows := prefixSteps
	for _, tuple := range al {
		// tuple header and address
		rows += prefixSteps + llarge
		if k := len(tuple.StorageKeys); k == 0 {
			rows++
		} else {
			rows += prefixSteps + llarge*k
		}
	}
	return rows
}
