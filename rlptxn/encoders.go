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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	common2 "github.com/erigontech/rlptxn/common"
	"github.com/erigontech/rlptxn/rlp"
	"github.com/erigontech/rlptxn/rlputils"
	"github.com/erigontech/rlptxn/trace"
)

const (
	phaseRlpPrefix = iota
	phaseChainID
	phaseNonce
	phaseGasPrice
	phaseMaxPriorityFee
	phaseMaxFee
	phaseGasLimit
	phaseTo
	phaseValue
	phaseData
	phaseAccessList
	phaseBeta
	phaseY
	phaseR
	phaseS
)

const (
	gTxDataZero    = 4
	gTxDataNonZero = 16

	llarge = rlputils.LLarge
	// every length prefix is emitted over this many rows
	prefixSteps = 8
)

// chunkTracer emits the rows of one chunk into a trace and rebuilds both
// encodings from the emitted limbs.
type chunkTracer struct {
	tr    *trace.Trace
	v     columnsValue
	rlpLt []byte
	rlpLx []byte
}

func newChunkTracer(tr *trace.Trace) *chunkTracer {
	return &chunkTracer{tr: tr}
}

func needsPrefix(minimal []byte) bool {
	return len(minimal) > 1 || (len(minimal) == 1 && minimal[0] >= rlp.ShortStringBase)
}

func dataGas(b byte) int {
	if b == 0 {
		return gTxDataZero
	}
	return gTxDataNonZero
}

func (c *chunkTracer) nonNegative(counter string, value int) {
	if value < 0 {
		panic(&ByteSizeError{AbsTxNum: c.v.absTxNum, Phase: c.v.phase, Counter: counter, Value: value})
	}
}

func (c *chunkTracer) requireZero(counter string, value int) {
	if value != 0 {
		panic(&ByteSizeError{AbsTxNum: c.v.absTxNum, Phase: c.v.phase, Counter: counter, Value: value})
	}
}

// rlpByteString emits the 8-row header of a string or list whose payload has
// length bytes.
func (c *chunkTracer) rlpByteString(phase, length int, isList bool, f flags) {
	v := &c.v
	lengthBytes := common2.MinimalBigEndianU64(uint64(length))
	lengthSize := len(lengthBytes)
	byteCounting := rlputils.ByteCounting(lengthSize, prefixSteps)

	v.partialReset(phase, prefixSteps, f.lt, f.lx)
	v.input1 = lengthBytes
	v.isPrefix = f.isPrefix
	v.depth1, v.depth2 = f.depth1, f.depth2

	input1RightShift := common2.LeftPadBytes(lengthBytes, prefixSteps)

	// range hint for the circuit: distance to the short/long threshold
	acc2LastRow := 55 - length
	if length >= 56 {
		acc2LastRow = length - 56
	}
	acc2LastRowShift := common2.LeftPadBytes(common2.MinimalBigEndianU64(uint64(acc2LastRow)), prefixSteps)

	shortBase, longBase := byte(rlp.ShortStringBase), byte(rlp.LongStringBase)
	if isList {
		shortBase, longBase = rlp.ShortListBase, rlp.LongListBase
	}

	for ct := 0; ct < prefixSteps; ct++ {
		v.counter = ct
		v.accByteSize = byteCounting.AccByteSize[ct]
		v.power = byteCounting.Power[ct]
		v.byte1 = input1RightShift[ct]
		v.acc1 = input1RightShift[:ct+1]
		v.byte2 = acc2LastRowShift[ct]
		v.acc2 = acc2LastRowShift[:ct+1]

		if length >= 56 {
			if ct == prefixSteps-2 {
				v.limbConstructed = true
				v.nBytes = 1
				v.limb = []byte{longBase + byte(lengthSize)}
			}
			if ct == prefixSteps-1 {
				v.limb = lengthBytes
				v.nBytes = lengthSize
				v.bit = true
				v.bitAcc = 1
				v.phaseEnd = f.phaseEnd
			}
		} else if ct == prefixSteps-1 {
			v.limbConstructed = true
			v.limb = []byte{shortBase + byte(length)}
			v.nBytes = 1
			v.phaseEnd = f.phaseEnd
		}
		c.traceRow()
	}
}

// rlpInt emits a non-zero integer given in minimal big-endian form over
// nStep rows. With onlyPrefix the value bytes are left to the caller.
func (c *chunkTracer) rlpInt(phase int, input []byte, nStep int, f flags, onlyPrefix bool) {
	v := &c.v
	v.partialReset(phase, nStep, f.lt, f.lx)
	v.isPrefix = f.isPrefix

	inputSize := len(input)
	if inputSize > nStep {
		c.violation(phaseNames[phase], ErrFieldTooWide)
	}
	byteCounting := rlputils.ByteCounting(inputSize, nStep)
	inputPadded := common2.LeftPadBytes(input, nStep)
	bitDec := rlputils.BitDecomposition(inputPadded[nStep-1], nStep)
	prefixed := needsPrefix(input)

	v.input1 = input

	for ct := 0; ct < nStep; ct++ {
		v.counter = ct
		v.byte1 = inputPadded[ct]
		v.acc1 = inputPadded[:ct+1]
		v.power = byteCounting.Power[ct]
		v.accByteSize = byteCounting.AccByteSize[ct]
		v.bit = bitDec.Bits[ct]
		v.bitAcc = bitDec.BitAcc[ct]

		if prefixed && ct == nStep-2 {
			v.limbConstructed = true
			v.limb = []byte{rlp.ShortStringBase + byte(inputSize)}
			v.nBytes = 1
		}

		if ct == nStep-1 {
			if onlyPrefix {
				v.lcCorrection = true
				v.limbConstructed = false
				v.limb = nil
				v.nBytes = 0
			} else {
				v.limbConstructed = true
				v.limb = input
				v.nBytes = inputSize
				v.phaseEnd = f.phaseEnd
			}
		}
		c.traceRow()
	}
}

// handle32BytesInteger emits r or s split over two 16-byte limbs.
func (c *chunkTracer) handle32BytesInteger(phase int, input *uint256.Int) {
	if input.IsZero() {
		c.traceZeroInt(phase, lxOnly.end(true))
		return
	}
	v := &c.v
	v.partialReset(phase, llarge, false, true)

	inputBytes := input.Bytes()
	inputLen := len(inputBytes)
	input32 := input.Bytes32()
	v.input1 = input32[:llarge]
	v.input2 = input32[llarge:]

	if inputLen <= v.nStep {
		byteCounting := rlputils.ByteCounting(inputLen, v.nStep)
		bitDec := rlputils.BitDecomposition(inputBytes[inputLen-1], v.nStep)

		for ct := 0; ct < v.nStep; ct++ {
			v.counter = ct
			v.byte2 = v.input2[ct]
			v.acc2 = v.input2[:ct+1]
			v.accByteSize = byteCounting.AccByteSize[ct]
			v.power = byteCounting.Power[ct]
			v.bit = bitDec.Bits[ct]
			v.bitAcc = bitDec.BitAcc[ct]

			if ct == v.nStep-2 && needsPrefix(inputBytes) {
				v.limbConstructed = true
				v.limb = []byte{rlp.ShortStringBase + byte(inputLen)}
				v.nBytes = 1
			}
			if ct == v.nStep-1 {
				v.limbConstructed = true
				v.limb = v.input2[llarge-inputLen:]
				v.nBytes = inputLen
				v.phaseEnd = true
			}
			c.traceRow()
		}
		return
	}

	hiLen := inputLen - v.nStep
	byteCounting := rlputils.ByteCounting(hiLen, v.nStep)
	for ct := 0; ct < v.nStep; ct++ {
		v.counter = ct
		v.byte1 = v.input1[ct]
		v.acc1 = v.input1[:ct+1]
		v.byte2 = v.input2[ct]
		v.acc2 = v.input2[:ct+1]
		v.accByteSize = byteCounting.AccByteSize[ct]
		v.power = byteCounting.Power[ct]

		if ct == v.nStep-3 {
			v.limbConstructed = true
			v.limb = []byte{rlp.ShortStringBase + byte(llarge+hiLen)}
			v.nBytes = 1
		}
		if ct == v.nStep-2 {
			v.limb = v.input1[llarge-hiLen:]
			v.nBytes = hiLen
		}
		if ct == v.nStep-1 {
			v.limb = v.input2
			v.nBytes = llarge
			v.phaseEnd = true
		}
		c.traceRow()
	}
}

// handleAddress emits a 20-byte address as a 4-byte and a 16-byte limb.
func (c *chunkTracer) handleAddress(phase int, address common.Address) {
	v := &c.v
	v.partialReset(phase, llarge, true, true)
	v.input1 = common2.LeftPadBytes(address[:4], llarge)
	v.input2 = common2.CopyBytes(address[4:])
	v.depth1 = phase == phaseAccessList

	for ct := 0; ct < v.nStep; ct++ {
		v.counter = ct
		v.byte1 = v.input1[ct]
		v.acc1 = v.input1[:ct+1]
		v.byte2 = v.input2[ct]
		v.acc2 = v.input2[:ct+1]

		if ct == v.nStep-3 {
			v.limbConstructed = true
			v.limb = []byte{rlp.ShortStringBase + common.AddressLength}
			v.nBytes = 1
		}
		if ct == v.nStep-2 {
			v.limb = v.input1[llarge-4:]
			v.nBytes = 4
		}
		if ct == v.nStep-1 {
			v.limb = v.input2
			v.nBytes = llarge
			v.phaseEnd = phase == phaseTo
		}
		c.traceRow()
	}
}

func (c *chunkTracer) handleStorageKey(key common.Hash, endPhase bool) {
	v := &c.v
	v.partialReset(phaseAccessList, llarge, true, true)
	v.depth1, v.depth2 = true, true
	v.input1 = common2.CopyBytes(key[:llarge])
	v.input2 = common2.CopyBytes(key[llarge:])

	for ct := 0; ct < v.nStep; ct++ {
		v.counter = ct
		v.byte1 = v.input1[ct]
		v.acc1 = v.input1[:ct+1]
		v.byte2 = v.input2[ct]
		v.acc2 = v.input2[:ct+1]

		if ct == v.nStep-3 {
			v.limbConstructed = true
			v.limb = []byte{rlp.ShortStringBase + common.HashLength}
			v.nBytes = 1
		}
		if ct == v.nStep-2 {
			v.limb = v.input1
			v.nBytes = llarge
		}
		if ct == v.nStep-1 {
			v.limb = v.input2
			v.phaseEnd = endPhase
		}
		c.traceRow()
	}
}

// traceZeroInt emits the empty string marker. The row is always flagged as a
// prefix.
func (c *chunkTracer) traceZeroInt(phase int, f flags) {
	v := &c.v
	v.partialReset(phase, 1, f.lt, f.lx)
	v.limbConstructed = true
	v.limb = []byte{rlp.ShortStringBase}
	v.nBytes = 1
	v.isPrefix = true
	v.phaseEnd = f.phaseEnd
	c.traceRow()
}

// traceVoidList emits the empty list marker.
func (c *chunkTracer) traceVoidList(phase int, f flags) {
	v := &c.v
	v.partialReset(phase, 1, f.lt, f.lx)
	v.limbConstructed = true
	v.limb = []byte{rlp.ShortListBase}
	v.nBytes = 1
	v.isPrefix = f.isPrefix
	v.depth1, v.depth2 = f.depth1, f.depth2
	v.phaseEnd = f.phaseEnd
	c.traceRow()
}

func (c *chunkTracer) traceRow() {
	v := &c.v

	if v.phase != phaseRlpPrefix {
		if v.limbConstructed && v.lt {
			v.rlpLtByteSize -= v.nBytes
		}
		if v.limbConstructed && v.lx {
			v.rlpLxByteSize -= v.nBytes
		}
	}

	if v.phase == phaseAccessList {
		if v.depth1 && v.limbConstructed {
			v.phaseByteSize -= v.nBytes
		}
		// tuple prefixes sit outside the tuple they announce
		if v.depth1 && !(v.isPrefix && !v.depth2) && v.limbConstructed {
			v.accessTupleByteSize -= v.nBytes
		}
	}
	c.nonNegative("RLP_LT_BYTESIZE", v.rlpLtByteSize)
	c.nonNegative("RLP_LX_BYTESIZE", v.rlpLxByteSize)
	c.nonNegative("PHASE_SIZE", v.phaseByteSize)
	c.nonNegative("ACCESS_TUPLE_BYTESIZE", v.accessTupleByteSize)
	c.nonNegative("DATA_GAS_COST", v.dataGasCost)

	tr := c.tr
	tr.SetUint(trace.AbsTxNum, uint64(v.absTxNum))
	tr.SetUint(trace.AbsTxNumInfiny, uint64(v.absTxNumInfiny))
	tr.SetBytes(trace.Acc1, v.acc1)
	tr.SetBytes(trace.Acc2, v.acc2)
	tr.SetUint(trace.AccBytesize, uint64(v.accByteSize))
	tr.SetUint(trace.AccessTupleBytesize, uint64(v.accessTupleByteSize))
	tr.SetBytes(trace.AddrHi, v.addrHi)
	tr.SetBytes(trace.AddrLo, v.addrLo)
	tr.SetBool(trace.Bit, v.bit)
	tr.SetUint(trace.BitAcc, uint64(v.bitAcc))
	tr.SetUint(trace.Byte1, uint64(v.byte1))
	tr.SetUint(trace.Byte2, uint64(v.byte2))
	tr.SetUint(trace.CodeFragmentIndex, uint64(v.codeFragmentIndex))
	tr.SetUint(trace.Counter, uint64(v.counter))
	tr.SetU256(trace.DataHi, &v.dataHi)
	tr.SetU256(trace.DataLo, &v.dataLo)
	tr.SetUint(trace.DataGasCost, uint64(v.dataGasCost))
	tr.SetBool(trace.Depth1, v.depth1)
	tr.SetBool(trace.Depth2, v.depth2)
	tr.SetBool(trace.Done, v.counter == v.nStep-1)
	tr.SetBool(trace.PhaseEnd, v.phaseEnd)
	tr.SetUint(trace.IndexData, uint64(v.indexData))
	tr.SetUint(trace.IndexLt, uint64(v.indexLt))
	tr.SetUint(trace.IndexLx, uint64(v.indexLx))
	tr.SetBytes(trace.Input1, v.input1)
	tr.SetBytes(trace.Input2, v.input2)
	tr.SetBool(trace.LcCorrection, v.lcCorrection)
	tr.SetBool(trace.IsPrefix, v.isPrefix)
	tr.SetBytes(trace.Limb, common2.RightPadBytes(v.limb, llarge))
	tr.SetBool(trace.LimbConstructed, v.limbConstructed)
	tr.SetBool(trace.Lt, v.lt)
	tr.SetBool(trace.Lx, v.lx)
	tr.SetUint(trace.NBytes, uint64(v.nBytes))
	tr.SetUint(trace.NAddr, uint64(v.nbAddr))
	tr.SetUint(trace.NKeys, uint64(v.nbSto))
	tr.SetUint(trace.NKeysPerAddr, uint64(v.nbStoPerAddr))
	tr.SetUint(trace.NStep, uint64(v.nStep))
	for p := 0; p < trace.NumPhases; p++ {
		tr.SetBool(trace.PhaseColumn(p), p == v.phase)
	}
	tr.SetUint(trace.PhaseSize, uint64(v.phaseByteSize))
	tr.SetU256(trace.Power, &v.power)
	tr.SetBool(trace.RequiresEvmExecution, v.requiresEvm)
	tr.SetUint(trace.RlpLtBytesize, uint64(v.rlpLtByteSize))
	tr.SetUint(trace.RlpLxBytesize, uint64(v.rlpLxByteSize))
	tr.SetUint(trace.Type, uint64(v.txType))

	if v.limbConstructed && v.lt {
		v.indexLt++
	}
	if v.limbConstructed && v.lx {
		v.indexLx++
	}

	if v.phase == phaseData && !v.isPrefix && (v.limbConstructed || v.lcCorrection) {
		v.indexData++
	}

	if v.phase == phaseData && v.phaseByteSize != 0 && !v.isPrefix {
		v.phaseByteSize--
		v.dataGasCost -= dataGas(v.byte1)
	}

	if v.phaseEnd {
		v.resetDataHiLo()
	}
	tr.ValidateRow()

	if v.limbConstructed && v.lt {
		c.rlpLt = append(c.rlpLt, v.limb[:v.nBytes]...)
	}
	if v.limbConstructed && v.lx {
		c.rlpLx = append(c.rlpLx, v.limb[:v.nBytes]...)
	}
}
