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
	"bytes"

	"github.com/holiman/uint256"

	common2 "github.com/erigontech/rlptxn/common"
	"github.com/erigontech/rlptxn/rlputils"
	"github.com/erigontech/rlptxn/types"
)

var phaseNames = [...]string{
	phaseRlpPrefix:      "rlp prefix",
	phaseChainID:        "chain id",
	phaseNonce:          "nonce",
	phaseGasPrice:       "gas price",
	phaseMaxPriorityFee: "max priority fee",
	phaseMaxFee:         "max fee",
	phaseGasLimit:       "gas limit",
	phaseTo:             "to",
	phaseValue:          "value",
	phaseData:           "data",
	phaseAccessList:     "access list",
	phaseBeta:           "beta",
	phaseY:              "y",
	phaseR:              "r",
	phaseS:              "s",
}

func (c *chunkTracer) violation(field string, err error) {
	panic(&ContractViolationError{AbsTxNum: c.v.absTxNum, Field: field, Err: err})
}

// checkFields rejects values that do not fit the row windows of their phase.
func (c *chunkTracer) checkFields(tx types.Transaction) {
	fitsIn := func(field string, value *uint256.Int, width int) {
		if value != nil && value.ByteLen() > width {
			c.violation(field, ErrFieldTooWide)
		}
	}
	fitsIn(phaseNames[phaseValue], tx.GetValue(), llarge)

	v, _, _ := tx.RawSignatureValues()
	switch t := tx.(type) {
	case *types.LegacyTx:
		fitsIn(phaseNames[phaseGasPrice], t.GetGasPrice(), prefixSteps)
		fitsIn(phaseNames[phaseBeta], v, prefixSteps)
		if v.LtUint64(35) && !v.Eq(uint256.NewInt(27)) && !v.Eq(uint256.NewInt(28)) {
			c.violation(phaseNames[phaseBeta], ErrInvalidSignature)
		}
	case *types.AccessListTx:
		fitsIn(phaseNames[phaseChainID], t.ChainID, prefixSteps)
		fitsIn(phaseNames[phaseGasPrice], t.GetGasPrice(), prefixSteps)
	case *types.DynamicFeeTransaction:
		fitsIn(phaseNames[phaseChainID], t.ChainID, prefixSteps)
		fitsIn(phaseNames[phaseMaxPriorityFee], t.TipCap, prefixSteps)
		fitsIn(phaseNames[phaseMaxFee], t.FeeCap, prefixSteps)
	}
	if tx.Type() != types.LegacyTxType && !v.IsZero() && !v.Eq(uint256.NewInt(1)) {
		c.violation(phaseNames[phaseY], ErrInvalidSignature)
	}
}

// traceChunk emits every row of one transaction and checks the rebuilt
// encodings against the reference encoder.
func (c *chunkTracer) traceChunk(tx types.Transaction, absTxNum, absTxNumInfiny int, requiresEvm bool, codeFragmentIndex int) {
	c.v = columnsValue{
		absTxNum:          absTxNum,
		absTxNumInfiny:    absTxNumInfiny,
		requiresEvm:       requiresEvm,
		codeFragmentIndex: codeFragmentIndex,
		txType:            tx.Type(),
	}
	c.rlpLt, c.rlpLx = c.rlpLt[:0], c.rlpLx[:0]
	c.checkFields(tx)

	expectedLt := types.SigningPreimageBytes(tx)
	expectedLx := types.SignedBytes(tx)
	typeOffset := 0
	if tx.Type() != types.LegacyTxType {
		typeOffset = 1
	}
	c.v.rlpLtByteSize = rlputils.InnerRlpSize(len(expectedLt) - typeOffset)
	c.v.rlpLxByteSize = rlputils.InnerRlpSize(len(expectedLx) - typeOffset)

	c.handlePhaseGlobalRlpPrefix()

	switch t := tx.(type) {
	case *types.LegacyTx:
		c.handlePhaseNonce(t.Nonce)
		c.handlePhaseGasPrice(t.GetGasPrice())
	case *types.AccessListTx:
		c.handlePhaseChainID(t.GetChainID())
		c.handlePhaseNonce(t.Nonce)
		c.handlePhaseGasPrice(t.GetGasPrice())
	case *types.DynamicFeeTransaction:
		c.handlePhaseChainID(t.GetChainID())
		c.handlePhaseNonce(t.Nonce)
		c.handlePhaseFees(t.GetTipCap(), t.GetFeeCap())
	}

	c.v.dataLo.SetUint64(tx.GetGasLimit())
	c.handlePhaseInteger(phaseGasLimit, uint256.NewInt(tx.GetGasLimit()), prefixSteps)
	c.handlePhaseTo(tx)
	c.handlePhaseValue(tx)
	c.handlePhaseData(tx.GetData())

	if legacy, ok := tx.(*types.LegacyTx); ok {
		c.handlePhaseBeta(legacy)
	} else {
		c.handlePhaseAccessList(tx.GetAccessList())
		c.handlePhaseY(tx)
	}

	_, r, s := tx.RawSignatureValues()
	c.handle32BytesInteger(phaseR, r)
	c.handle32BytesInteger(phaseS, s)

	c.requireZero("RLP_LT_BYTESIZE", c.v.rlpLtByteSize)
	c.requireZero("RLP_LX_BYTESIZE", c.v.rlpLxByteSize)
	c.checkReconstructed("LT", expectedLt, c.rlpLt)
	c.checkReconstructed("LX", expectedLx, c.rlpLx)
}

func (c *chunkTracer) checkReconstructed(encoding string, expected, actual []byte) {
	if !bytes.Equal(expected, actual) {
		panic(&DivergenceError{
			AbsTxNum: c.v.absTxNum,
			Encoding: encoding,
			Offset:   firstDifference(expected, actual),
			Expected: expected,
			Actual:   common2.CopyBytes(actual),
		})
	}
}

// handlePhaseGlobalRlpPrefix emits the type byte and the outer list headers
// of both encodings. Limbs of this phase do not count against the sizes.
func (c *chunkTracer) handlePhaseGlobalRlpPrefix() {
	v := &c.v
	v.dataLo.SetUint64(uint64(v.txType))

	v.partialReset(phaseRlpPrefix, 1, true, true)
	if v.txType == types.LegacyTxType {
		v.lcCorrection = true
	} else {
		v.limbConstructed = true
		v.limb = []byte{v.txType}
		v.nBytes = 1
	}
	c.traceRow()

	c.rlpByteString(phaseRlpPrefix, v.rlpLtByteSize, true, ltOnly)
	c.rlpByteString(phaseRlpPrefix, v.rlpLxByteSize, true, lxOnly.end(true))
}

func (c *chunkTracer) handlePhaseInteger(phase int, input *uint256.Int, nStep int) {
	if input.IsZero() {
		c.traceZeroInt(phase, ltLx.end(true))
		return
	}
	c.rlpInt(phase, input.Bytes(), nStep, ltLx.end(true), false)
}

func (c *chunkTracer) handlePhaseChainID(chainID *uint256.Int) {
	c.v.dataLo.Set(chainID)
	c.handlePhaseInteger(phaseChainID, chainID, prefixSteps)
}

func (c *chunkTracer) handlePhaseNonce(nonce uint64) {
	c.v.dataLo.SetUint64(nonce)
	c.handlePhaseInteger(phaseNonce, uint256.NewInt(nonce), prefixSteps)
}

func (c *chunkTracer) handlePhaseGasPrice(gasPrice *uint256.Int) {
	c.v.dataLo.Set(gasPrice)
	c.handlePhaseInteger(phaseGasPrice, gasPrice, prefixSteps)
}

func (c *chunkTracer) handlePhaseFees(tip, feeCap *uint256.Int) {
	c.v.dataHi.Set(tip)
	c.v.dataLo.Set(feeCap)
	c.handlePhaseInteger(phaseMaxPriorityFee, tip, prefixSteps)

	c.v.dataHi.Set(tip)
	c.v.dataLo.Set(feeCap)
	c.handlePhaseInteger(phaseMaxFee, feeCap, prefixSteps)
}

func (c *chunkTracer) handlePhaseTo(tx types.Transaction) {
	to := tx.GetTo()
	if to == nil {
		c.traceZeroInt(phaseTo, ltLx.end(true))
		return
	}
	c.v.dataHi.SetBytes(to[:4])
	c.v.dataLo.SetBytes(to[4:])
	c.handleAddress(phaseTo, *to)
}

func (c *chunkTracer) handlePhaseValue(tx types.Transaction) {
	c.v.dataLo.Set(tx.GetValue())
	if tx.GetTo() == nil {
		c.v.dataHi.SetOne()
	}
	c.handlePhaseInteger(phaseValue, tx.GetValue(), llarge)
}

func dataGasCost(data []byte) int {
	cost := 0
	for _, b := range data {
		cost += dataGas(b)
	}
	return cost
}

func (c *chunkTracer) handlePhaseData(data []byte) {
	v := &c.v

	if len(data) == 0 {
		c.traceZeroInt(phaseData, ltLx.prefix())

		v.partialReset(phaseData, 1, true, true)
		v.lcCorrection = true
		v.phaseEnd = true
		c.traceRow()
	} else {
		v.phaseByteSize = len(data)
		v.dataGasCost = dataGasCost(data)
		v.dataHi.SetUint64(uint64(v.dataGasCost))
		v.dataLo.SetUint64(uint64(len(data)))

		if len(data) == 1 {
			c.rlpInt(phaseData, common2.TrimLeftZeroes(data), prefixSteps, ltLx.prefix(), true)
		} else {
			c.rlpByteString(phaseData, len(data), false, ltLx.prefix())
		}

		nbBlocks := (len(data)-1)/llarge + 1
		padded := common2.RightPadBytes(data, nbBlocks*llarge)
		for i := 0; i < nbBlocks; i++ {
			v.partialReset(phaseData, llarge, true, true)
			v.input1 = padded[i*llarge : (i+1)*llarge]
			accByteSize := 0
			for ct := 0; ct < llarge; ct++ {
				v.counter = ct
				if v.phaseByteSize != 0 {
					accByteSize++
				}
				v.byte1 = v.input1[ct]
				v.acc1 = v.input1[:ct+1]
				v.accByteSize = accByteSize
				if ct == llarge-1 {
					v.limbConstructed = true
					v.limb = v.input1
					v.nBytes = accByteSize
				}
				c.traceRow()
			}
		}

		v.partialReset(phaseData, 2, true, true)
		v.lcCorrection = true
		c.traceRow()

		v.counter = 1
		v.phaseEnd = true
		c.traceRow()
	}

	c.requireZero("PHASE_SIZE", v.phaseByteSize)
	c.requireZero("DATA_GAS_COST", v.dataGasCost)
	v.indexData = 0
}

func (c *chunkTracer) handlePhaseAccessList(al types.AccessList) {
	v := &c.v
	if len(al) == 0 {
		c.traceVoidList(phaseAccessList, ltLx.prefix().end(true))
		return
	}

	tupleSizes := make([]int, len(al))
	phaseByteSize := 0
	for i := range al {
		tupleSizes[i] = types.TupleSize(len(al[i].StorageKeys))
		phaseByteSize += rlputils.OuterRlpSize(tupleSizes[i])
	}

	v.nbAddr = len(al)
	v.nbSto = al.StorageKeys()
	v.dataLo.SetUint64(uint64(v.nbAddr))
	v.dataHi.SetUint64(uint64(v.nbSto))
	v.phaseByteSize = phaseByteSize

	c.rlpByteString(phaseAccessList, phaseByteSize, true, ltLx.prefix())

	for i, tuple := range al {
		keys := tuple.StorageKeys
		v.nbAddr--
		v.nbStoPerAddr = len(keys)
		v.addrHi = common2.CopyBytes(tuple.Address[:4])
		v.addrLo = common2.CopyBytes(tuple.Address[4:])
		v.accessTupleByteSize = tupleSizes[i]

		c.rlpByteString(phaseAccessList, tupleSizes[i], true, ltLx.prefix().depth(true, false))
		c.handleAddress(phaseAccessList, tuple.Address)

		if len(keys) == 0 {
			last := v.nbSto == 0 && v.nbAddr == 0
			c.traceVoidList(phaseAccessList, ltLx.prefix().depth(true, true).end(last))
		} else {
			c.rlpByteString(phaseAccessList, 33*len(keys), true, ltLx.prefix().depth(true, true))
			for _, key := range keys {
				v.nbSto--
				v.nbStoPerAddr--
				c.handleStorageKey(key, v.nbSto == 0 && v.nbAddr == 0)
			}
		}

		c.requireZero("ACCESS_TUPLE_BYTESIZE", v.accessTupleByteSize)
		v.addrHi, v.addrLo = nil, nil
	}
	c.requireZero("PHASE_SIZE", v.phaseByteSize)
}

// handlePhaseBeta emits V into the signed encoding and, for EIP-155
// transactions, the chain id and two empty strings into the preimage.
func (c *chunkTracer) handlePhaseBeta(tx *types.LegacyTx) {
	v := &c.v
	protected := tx.Protected()
	// without a chain id V is the whole phase
	c.rlpInt(phaseBeta, tx.V.Bytes(), prefixSteps, lxOnly.end(!protected), false)
	if !protected {
		return
	}

	beta := tx.GetChainID()
	if beta.IsZero() {
		c.traceZeroInt(phaseBeta, ltOnly)
	} else {
		c.rlpInt(phaseBeta, beta.Bytes(), prefixSteps, ltOnly.prefix(), false)
	}

	v.partialReset(phaseBeta, 1, true, false)
	v.limbConstructed = true
	v.limb = []byte{0x80, 0x80}
	v.nBytes = 2
	v.phaseEnd = true
	c.traceRow()
}

func (c *chunkTracer) handlePhaseY(tx types.Transaction) {
	y, _, _ := tx.RawSignatureValues()
	v := &c.v
	v.partialReset(phaseY, 1, false, true)
	v.input1 = y.Bytes()
	v.limbConstructed = true
	if y.IsZero() {
		v.limb = []byte{0x80}
	} else {
		v.limb = []byte{0x01}
	}
	v.nBytes = 1
	v.phaseEnd = true
	c.traceRow()
}
