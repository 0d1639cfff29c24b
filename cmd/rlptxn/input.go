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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	jsoniter "github.com/json-iterator/go"

	"github.com/erigontech/rlptxn/rlptxn"
	"github.com/erigontech/rlptxn/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptyConflation = errors.New("conflation has no transactions")

type inputTx struct {
	Raw hexutil.Bytes `json:"raw"`
	// Reverted transactions are traced and then rolled back, they do not
	// reach the table.
	Reverted bool `json:"reverted"`
}

type conflation struct {
	Transactions  []inputTx        `json:"transactions"`
	CodeAddresses []common.Address `json:"codeAddresses"`
}

func loadConflation(path string) (*conflation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c conflation
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(c.Transactions) == 0 {
		return nil, ErrEmptyConflation
	}
	return &c, nil
}

func decodeTransaction(raw []byte) (types.Transaction, error) {
	var tx gethtypes.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return types.FromGeth(&tx)
}

// feed hands every transaction of c to r, each under its own checkpoint.
func feed(r *rlptxn.RlpTxn, c *conflation) error {
	for i, in := range c.Transactions {
		tx, err := decodeTransaction(in.Raw)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		r.EnterTransaction()
		r.TraceStartTx(tx)
		if in.Reverted {
			r.PopTransaction()
		}
	}
	return nil
}
