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
	"io"

	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/rlp"
)

var (
	u256Num2  = uint256.NewInt(2)
	u256Num35 = uint256.NewInt(35)
)

// LegacyTx is a pre-EIP-2718 transaction, optionally EIP-155 protected.
type LegacyTx struct {
	CommonTx
	GasPrice *uint256.Int
}

func (tx *LegacyTx) Type() byte                { return LegacyTxType }
func (tx *LegacyTx) GetAccessList() AccessList { return nil }

func (tx *LegacyTx) GetGasPrice() *uint256.Int {
	if tx.GasPrice == nil {
		return new(uint256.Int)
	}
	return tx.GasPrice
}

// Protected reports whether V commits to a chain id (EIP-155).
func (tx *LegacyTx) Protected() bool {
	return isProtectedV(&tx.V)
}

func isProtectedV(v *uint256.Int) bool {
	if v.IsUint64() {
		v := v.Uint64()
		return v != 27 && v != 28
	}
	return true
}

func (tx *LegacyTx) GetChainID() *uint256.Int {
	if !tx.Protected() {
		return nil
	}
	return DeriveChainID(&tx.V)
}

// DeriveChainID is the EIP-155 chain id encoded in V, zero for V in {27, 28}.
func DeriveChainID(v *uint256.Int) *uint256.Int {
	if v.IsUint64() {
		v := v.Uint64()
		if v == 27 || v == 28 {
			return new(uint256.Int)
		}
		return new(uint256.Int).SetUint64((v - 35) / 2)
	}
	r := new(uint256.Int).Sub(v, u256Num35)
	return r.Div(r, u256Num2)
}

func (tx *LegacyTx) headSize() int {
	size := 1 + rlp.IntLenExcludingHead(tx.Nonce)
	size += 1 + rlp.Uint256LenExcludingHead(tx.GetGasPrice())
	size += 1 + rlp.IntLenExcludingHead(tx.GasLimit)
	return size
}

func (tx *LegacyTx) encodeHead(w io.Writer, b []byte) error {
	if err := rlp.EncodeInt(tx.Nonce, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.GetGasPrice(), w, b); err != nil {
		return err
	}
	return rlp.EncodeInt(tx.GasLimit, w, b)
}

func (tx *LegacyTx) PayloadSize() int {
	return tx.headSize() + tx.tailSize() + tx.signatureSize()
}

func (tx *LegacyTx) SigningPayloadSize() int {
	size := tx.headSize() + tx.tailSize()
	if tx.Protected() {
		// chainId, 0, 0
		size += 1 + rlp.Uint256LenExcludingHead(tx.GetChainID()) + 2
	}
	return size
}

func (tx *LegacyTx) MarshalBinary(w io.Writer) error {
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	if err := rlp.EncodeStructSizePrefix(tx.PayloadSize(), w, b[:]); err != nil {
		return err
	}
	if err := tx.encodeHead(w, b[:]); err != nil {
		return err
	}
	if err := tx.encodeTail(w, b[:]); err != nil {
		return err
	}
	return tx.encodeSignature(w, b[:])
}

func (tx *LegacyTx) EncodeSigningPreimage(w io.Writer) error {
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	if err := rlp.EncodeStructSizePrefix(tx.SigningPayloadSize(), w, b[:]); err != nil {
		return err
	}
	if err := tx.encodeHead(w, b[:]); err != nil {
		return err
	}
	if err := tx.encodeTail(w, b[:]); err != nil {
		return err
	}
	if !tx.Protected() {
		return nil
	}
	if err := rlp.EncodeUint256(tx.GetChainID(), w, b[:]); err != nil {
		return err
	}
	b[0], b[1] = rlp.ShortStringBase, rlp.ShortStringBase
	_, err := w.Write(b[:2])
	return err
}
