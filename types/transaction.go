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

// Package types models the three transaction envelopes the tracer accepts
// and carries a reference RLP encoder for each of them.
package types

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/erigontech/rlptxn/rlp"
)

const (
	LegacyTxType byte = iota
	AccessListTxType
	DynamicFeeTxType
)

var ErrTxTypeNotSupported = errors.New("transaction type not supported")

// Transaction is implemented by *LegacyTx, *AccessListTx and
// *DynamicFeeTransaction only.
type Transaction interface {
	Type() byte
	GetNonce() uint64
	GetGasLimit() uint64
	GetTo() *common.Address
	GetValue() *uint256.Int
	GetData() []byte
	GetAccessList() AccessList
	// GetChainID is the explicit chain id for typed transactions and the one
	// derived from V for legacy ones. Nil for unprotected legacy transactions.
	GetChainID() *uint256.Int
	RawSignatureValues() (v, r, s *uint256.Int)

	// PayloadSize is the size of the signed RLP list payload.
	PayloadSize() int
	// SigningPayloadSize is the size of the signing preimage RLP list payload.
	SigningPayloadSize() int
	// MarshalBinary writes the signed canonical encoding: the bare RLP list for
	// legacy transactions, type || RLP list for typed ones.
	MarshalBinary(w io.Writer) error
	// EncodeSigningPreimage writes the bytes whose keccak is the signing hash.
	EncodeSigningPreimage(w io.Writer) error

	sealed()
}

type encodingBuf [33]byte

var pooledBuf = sync.Pool{
	New: func() any { return new(encodingBuf) },
}

func newEncodingBuf() *encodingBuf {
	b := pooledBuf.Get().(*encodingBuf)
	*b = encodingBuf{}
	return b
}

// CommonTx holds the fields shared by every envelope.
type CommonTx struct {
	Nonce    uint64
	GasLimit uint64
	To       *common.Address // nil means contract creation
	Value    *uint256.Int
	Data     []byte
	// V is the y-parity for typed transactions.
	V, R, S uint256.Int
}

func (ct *CommonTx) GetNonce() uint64       { return ct.Nonce }
func (ct *CommonTx) GetGasLimit() uint64    { return ct.GasLimit }
func (ct *CommonTx) GetTo() *common.Address { return ct.To }
func (ct *CommonTx) GetData() []byte        { return ct.Data }

func (ct *CommonTx) GetValue() *uint256.Int {
	if ct.Value == nil {
		return new(uint256.Int)
	}
	return ct.Value
}

func (ct *CommonTx) RawSignatureValues() (v, r, s *uint256.Int) {
	return &ct.V, &ct.R, &ct.S
}

func (ct *CommonTx) IsContractCreation() bool { return ct.To == nil }

// tailSize covers to, value and data.
func (ct *CommonTx) tailSize() int {
	size := 1
	if ct.To != nil {
		size += common.AddressLength
	}
	size++
	size += rlp.Uint256LenExcludingHead(ct.GetValue())
	size += rlp.StringLen(ct.Data)
	return size
}

func (ct *CommonTx) encodeTail(w io.Writer, b []byte) error {
	if err := rlp.EncodeOptionalAddress(ct.To, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(ct.GetValue(), w, b); err != nil {
		return err
	}
	return rlp.EncodeString(ct.Data, w, b)
}

func (ct *CommonTx) signatureSize() int {
	size := 3
	size += rlp.Uint256LenExcludingHead(&ct.V)
	size += rlp.Uint256LenExcludingHead(&ct.R)
	size += rlp.Uint256LenExcludingHead(&ct.S)
	return size
}

func (ct *CommonTx) encodeSignature(w io.Writer, b []byte) error {
	if err := rlp.EncodeUint256(&ct.V, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(&ct.R, w, b); err != nil {
		return err
	}
	return rlp.EncodeUint256(&ct.S, w, b)
}

func (ct *CommonTx) sealed() {}

func encodeTyped(txType byte, payloadSize int, w io.Writer, encodeFields func(io.Writer, []byte) error) error {
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	b[0] = txType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	if err := rlp.EncodeStructSizePrefix(payloadSize, w, b[:]); err != nil {
		return err
	}
	return encodeFields(w, b[:])
}

// SignedBytes returns the signed canonical encoding of tx.
func SignedBytes(tx Transaction) []byte {
	var buf bytes.Buffer
	if err := tx.MarshalBinary(&buf); err != nil {
		panic(err) // bytes.Buffer never fails
	}
	return buf.Bytes()
}

// SigningPreimageBytes returns the signing preimage of tx.
func SigningPreimageBytes(tx Transaction) []byte {
	var buf bytes.Buffer
	if err := tx.EncodeSigningPreimage(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
