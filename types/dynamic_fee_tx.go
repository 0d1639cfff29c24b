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

// DynamicFeeTransaction is an EIP-1559 transaction.
type DynamicFeeTransaction struct {
	CommonTx
	ChainID    *uint256.Int
	TipCap     *uint256.Int
	FeeCap     *uint256.Int
	AccessList AccessList
}

func (tx *DynamicFeeTransaction) Type() byte                { return DynamicFeeTxType }
func (tx *DynamicFeeTransaction) GetAccessList() AccessList { return tx.AccessList }

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

func (tx *DynamicFeeTransaction) GetChainID() *uint256.Int { return orZero(tx.ChainID) }
func (tx *DynamicFeeTransaction) GetTipCap() *uint256.Int  { return orZero(tx.TipCap) }
func (tx *DynamicFeeTransaction) GetFeeCap() *uint256.Int  { return orZero(tx.FeeCap) }

func (tx *DynamicFeeTransaction) SigningPayloadSize() int {
	payloadSize := 1 + rlp.Uint256LenExcludingHead(tx.GetChainID())
	payloadSize += 1 + rlp.IntLenExcludingHead(tx.Nonce)
	payloadSize += 1 + rlp.Uint256LenExcludingHead(tx.GetTipCap())
	payloadSize += 1 + rlp.Uint256LenExcludingHead(tx.GetFeeCap())
	payloadSize += 1 + rlp.IntLenExcludingHead(tx.GasLimit)
	payloadSize += tx.tailSize()
	accessListLen := accessListSize(tx.AccessList)
	payloadSize += rlp.ListPrefixLen(accessListLen) + accessListLen
	return payloadSize
}

func (tx *DynamicFeeTransaction) PayloadSize() int {
	return tx.SigningPayloadSize() + tx.signatureSize()
}

func (tx *DynamicFeeTransaction) encodeUnsigned(w io.Writer, b []byte) error {
	if err := rlp.EncodeUint256(tx.GetChainID(), w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.Nonce, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.GetTipCap(), w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.GetFeeCap(), w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.GasLimit, w, b); err != nil {
		return err
	}
	if err := tx.encodeTail(w, b); err != nil {
		return err
	}
	return encodeAccessList(tx.AccessList, w, b)
}

func (tx *DynamicFeeTransaction) MarshalBinary(w io.Writer) error {
	return encodeTyped(DynamicFeeTxType, tx.PayloadSize(), w, func(w io.Writer, b []byte) error {
		if err := tx.encodeUnsigned(w, b); err != nil {
			return err
		}
		return tx.encodeSignature(w, b)
	})
}

func (tx *DynamicFeeTransaction) EncodeSigningPreimage(w io.Writer) error {
	return encodeTyped(DynamicFeeTxType, tx.SigningPayloadSize(), w, tx.encodeUnsigned)
}
