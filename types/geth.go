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

package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

func fromBig(name string, b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return new(uint256.Int), nil
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("%s is negative", name)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%s overflows 256 bits", name)
	}
	return v, nil
}

func copyAddress(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

// FromGeth converts a decoded go-ethereum transaction. Blob and set-code
// transactions are rejected with ErrTxTypeNotSupported.
func FromGeth(tx *gethtypes.Transaction) (Transaction, error) {
	ct := CommonTx{
		Nonce:    tx.Nonce(),
		GasLimit: tx.Gas(),
		To:       copyAddress(tx.To()),
		Data:     common.CopyBytes(tx.Data()),
	}
	var err error
	if ct.Value, err = fromBig("value", tx.Value()); err != nil {
		return nil, err
	}
	v, r, s := tx.RawSignatureValues()
	for _, sig := range []struct {
		name string
		src  *big.Int
		dst  *uint256.Int
	}{{"v", v, &ct.V}, {"r", r, &ct.R}, {"s", s, &ct.S}} {
		val, err := fromBig(sig.name, sig.src)
		if err != nil {
			return nil, err
		}
		sig.dst.Set(val)
	}

	switch tx.Type() {
	case gethtypes.LegacyTxType:
		gasPrice, err := fromBig("gasPrice", tx.GasPrice())
		if err != nil {
			return nil, err
		}
		return &LegacyTx{CommonTx: ct, GasPrice: gasPrice}, nil
	case gethtypes.AccessListTxType:
		gasPrice, err := fromBig("gasPrice", tx.GasPrice())
		if err != nil {
			return nil, err
		}
		chainID, err := fromBig("chainId", tx.ChainId())
		if err != nil {
			return nil, err
		}
		return &AccessListTx{
			LegacyTx:   LegacyTx{CommonTx: ct, GasPrice: gasPrice},
			ChainID:    chainID,
			AccessList: fromGethAccessList(tx.AccessList()),
		}, nil
	case gethtypes.DynamicFeeTxType:
		chainID, err := fromBig("chainId", tx.ChainId())
		if err != nil {
			return nil, err
		}
		tip, err := fromBig("maxPriorityFeePerGas", tx.GasTipCap())
		if err != nil {
			return nil, err
		}
		feeCap, err := fromBig("maxFeePerGas", tx.GasFeeCap())
		if err != nil {
			return nil, err
		}
		return &DynamicFeeTransaction{
			CommonTx:   ct,
			ChainID:    chainID,
			TipCap:     tip,
			FeeCap:     feeCap,
			AccessList: fromGethAccessList(tx.AccessList()),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrTxTypeNotSupported, tx.Type())
	}
}

func fromGethAccessList(al gethtypes.AccessList) AccessList {
	out := make(AccessList, len(al))
	for i, tuple := range al {
		out[i] = AccessTuple{
			Address:     tuple.Address,
			StorageKeys: append([]common.Hash{}, tuple.StorageKeys...),
		}
	}
	return out
}

func toGethAccessList(al AccessList) gethtypes.AccessList {
	out := make(gethtypes.AccessList, len(al))
	for i, tuple := range al {
		out[i] = gethtypes.AccessTuple{
			Address:     tuple.Address,
			StorageKeys: append([]common.Hash{}, tuple.StorageKeys...),
		}
	}
	return out
}

// ToGeth builds the equivalent go-ethereum transaction.
func ToGeth(tx Transaction) *gethtypes.Transaction {
	v, r, s := tx.RawSignatureValues()
	switch t := tx.(type) {
	case *LegacyTx:
		return gethtypes.NewTx(&gethtypes.LegacyTx{
			Nonce:    t.Nonce,
			GasPrice: t.GetGasPrice().ToBig(),
			Gas:      t.GasLimit,
			To:       copyAddress(t.To),
			Value:    t.GetValue().ToBig(),
			Data:     common.CopyBytes(t.Data),
			V:        v.ToBig(),
			R:        r.ToBig(),
			S:        s.ToBig(),
		})
	case *AccessListTx:
		return gethtypes.NewTx(&gethtypes.AccessListTx{
			ChainID:    t.GetChainID().ToBig(),
			Nonce:      t.Nonce,
			GasPrice:   t.GetGasPrice().ToBig(),
			Gas:        t.GasLimit,
			To:         copyAddress(t.To),
			Value:      t.GetValue().ToBig(),
			Data:       common.CopyBytes(t.Data),
			AccessList: toGethAccessList(t.AccessList),
			V:          v.ToBig(),
			R:          r.ToBig(),
			S:          s.ToBig(),
		})
	case *DynamicFeeTransaction:
		return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
			ChainID:    t.GetChainID().ToBig(),
			Nonce:      t.Nonce,
			GasTipCap:  t.GetTipCap().ToBig(),
			GasFeeCap:  t.GetFeeCap().ToBig(),
			Gas:        t.GasLimit,
			To:         copyAddress(t.To),
			Value:      t.GetValue().ToBig(),
			Data:       common.CopyBytes(t.Data),
			AccessList: toGethAccessList(t.AccessList),
			V:          v.ToBig(),
			R:          r.ToBig(),
			S:          s.ToBig(),
		})
	default:
		panic(fmt.Errorf("%w: %T", ErrTxTypeNotSupported, tx))
	}
}
