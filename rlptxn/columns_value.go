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
)

// columnsValue is the scratch state of one chunk. Fields in the first group
// describe the row block being emitted and are cleared by partialReset; the
// rest live for the whole chunk.
type columnsValue struct {
	phase           int
	nStep           int
	lt, lx          bool
	counter         int
	input1, input2  []byte
	byte1, byte2    byte
	acc1, acc2      []byte
	accByteSize     int
	power           uint256.Int
	bit             bool
	bitAcc          uint8
	limb            []byte
	nBytes          int
	limbConstructed bool
	lcCorrection    bool
	isPrefix        bool
	phaseEnd        bool
	depth1, depth2  bool

	absTxNum          int
	absTxNumInfiny    int
	requiresEvm       bool
	codeFragmentIndex int
	txType            byte

	dataHi, dataLo      uint256.Int
	addrHi, addrLo      []byte
	nbAddr, nbSto       int
	nbStoPerAddr        int
	phaseByteSize       int
	accessTupleByteSize int
	dataGasCost         int
	indexData           int
	indexLt, indexLx    int
	rlpLtByteSize       int
	rlpLxByteSize       int
}

// partialReset opens a new block of nStep rows in phase.
func (v *columnsValue) partialReset(phase, nStep int, lt, lx bool) {
	v.phase = phase
	v.nStep = nStep
	v.lt, v.lx = lt, lx
	v.counter = 0
	v.input1, v.input2 = nil, nil
	v.byte1, v.byte2 = 0, 0
	v.acc1, v.acc2 = nil, nil
	v.accByteSize = 0
	v.power.Clear()
	v.bit = false
	v.bitAcc = 0
	v.limb = nil
	v.nBytes = 0
	v.limbConstructed = false
	v.lcCorrection = false
	v.isPrefix = false
	v.phaseEnd = false
	v.depth1, v.depth2 = false, false
}

func (v *columnsValue) resetDataHiLo() {
	v.dataHi.Clear()
	v.dataLo.Clear()
}

// flags selects which encodings a block contributes to and how the circuit
// should read it.
type flags struct {
	lt, lx         bool
	isPrefix       bool
	depth1, depth2 bool
	phaseEnd       bool
}

var (
	// both encodings
	ltLx = flags{lt: true, lx: true}
	// signing preimage only
	ltOnly = flags{lt: true}
	// signed encoding only
	lxOnly = flags{lx: true}
)

func (f flags) prefix() flags    { f.isPrefix = true; return f }
func (f flags) end(b bool) flags { f.phaseEnd = b; return f }
func (f flags) depth(d1, d2 bool) flags {
	f.depth1, f.depth2 = d1, d2
	return f
}
