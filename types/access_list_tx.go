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

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/rlp"
)

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

// TupleSize is the payload size of one encoded access tuple:
// the address string plus the storage key list.
func TupleSize(keys int) int {
	storageLen := 33 * keys
	return 21 + rlp.ListPrefixLen(storageLen) + storageLen
}

func accessListSize(al AccessList) int {
	var accessListLen int
	for _, tuple := range al {
		tupleLen := TupleSize(len(tuple.StorageKeys))
		accessListLen += rlp.ListPrefixLen(tupleLen) + tupleLen
	}
	return accessListLen
}

func encodeAccessList(al AccessList, w io.Writer, b []byte) error {
	if err := rlp.EncodeStructSizePrefix(accessListSize(al), w, b); err != nil {
		return err
	}
	for i := range al {
		if err := rlp.EncodeStructSizePrefix(TupleSize(len(al[i].StorageKeys)), w, b); err != nil {
			return err
		}
		if err := rlp.EncodeOptionalAddress(&al[i].Address, w, b); err != nil {
			return err
		}
		if err := rlp.EncodeStructSizePrefix(33*len(al[i].StorageKeys), w, b); err != nil {
			return err
		}
		for _, key := range al[i].StorageKeys {
			if err := rlp.EncodeHash(key, w, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// AccessListTx is the data of EIP-2930 access list transactions.
type AccessListTx struct {
	LegacyTx
	ChainID    *uint256.Int
	AccessList AccessList // EIP-2930 access list
}

func (tx *AccessListTx) Type() byte                { return AccessListTxType }
func (tx *AccessListTx) GetAccessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) Protected() bool           { return true }

func (tx *AccessListTx) GetChainID() *uint256.Int {
	if tx.ChainID == nil {
		return new(uint256.Int)
	}
	return tx.ChainID
}

func (tx *AccessListTx) SigningPayloadSize() int {
	payloadSize := 1 + rlp.Uint256LenExcludingHead(tx.GetChainID())
	payloadSize += tx.headSize() + tx.tailSize()
	accessListLen := accessListSize(tx.AccessList)
	payloadSize += rlp.ListPrefixLen(accessListLen) + accessListLen
	return payloadSize
}

func (tx *AccessListTx) PayloadSize() int {
	return tx.SigningPayloadSize() + tx.signatureSize()
}

func (tx *AccessListTx) encodeUnsigned(w io.Writer, b []byte) error {
	if err := rlp.EncodeUint256(tx.GetChainID(), w, b); err != nil {
		return err
	}
	if err := tx.encodeHead(w, b); err != nil {
		return err
	}
	if err := tx.encodeTail(w, b); err != nil {
		return err
	}
	return encodeAccessList(tx.AccessList, w, b)
}

func (tx *AccessListTx) MarshalBinary(w io.Writer) error {
	return encodeTyped(AccessListTxType, tx.PayloadSize(), w, func(w io.Writer, b []byte) error {
		if err := tx.encodeUnsigned(w, b); err != nil {
			return err
		}
		return tx.encodeSignature(w, b)
	})
}

func (tx *AccessListTx) EncodeSigningPreimage(w io.Writer) error {
	return encodeTyped(AccessListTxType, tx.SigningPayloadSize(), w, tx.encodeUnsigned)
}
