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

package trace

// Column identifies one output column. The order of the constants is the
// order of the columns in the output table.
type Column uint8

const (
	AbsTxNum Column = iota
	AbsTxNumInfiny
	Acc1
	Acc2
	AccBytesize
	AccessTupleBytesize
	AddrHi
	AddrLo
	Bit
	BitAcc
	Byte1
	Byte2
	CodeFragmentIndex
	Counter
	DataGasCost
	DataHi
	DataLo
	Depth1
	Depth2
	Done
	IndexData
	IndexLt
	IndexLx
	Input1
	Input2
	IsPrefix
	LcCorrection
	Limb
	LimbConstructed
	Lt
	Lx
	NAddr
	NBytes
	NKeys
	NKeysPerAddr
	NStep
	Phase0
	Phase1
	Phase2
	Phase3
	Phase4
	Phase5
	Phase6
	Phase7
	Phase8
	Phase9
	Phase10
	Phase11
	Phase12
	Phase13
	Phase14
	PhaseEnd
	PhaseSize
	Power
	RequiresEvmExecution
	RlpLtBytesize
	RlpLxBytesize
	Type

	NumColumns
)

const NumPhases = 15

// PhaseColumn returns the indicator column of phase p.
func PhaseColumn(p int) Column {
	return Phase0 + Column(p)
}

type Kind uint8

const (
	Uint Kind = iota
	Bool
	Bytes
)

func (k Kind) String() string {
	switch k {
	case Uint:
		return "uint"
	case Bool:
		return "bool"
	default:
		return "bytes"
	}
}

// Header describes one column of the table.
type Header struct {
	Name  string
	Width int
	Kind  Kind
}

var headers = [NumColumns]Header{
	AbsTxNum:             {"ABS_TX_NUM", 8, Uint},
	AbsTxNumInfiny:       {"ABS_TX_NUM_INFINY", 4, Uint},
	Acc1:                 {"ACC_1", 32, Bytes},
	Acc2:                 {"ACC_2", 32, Bytes},
	AccBytesize:          {"ACC_BYTESIZE", 2, Uint},
	AccessTupleBytesize:  {"ACCESS_TUPLE_BYTESIZE", 4, Uint},
	AddrHi:               {"ADDR_HI", 8, Bytes},
	AddrLo:               {"ADDR_LO", 32, Bytes},
	Bit:                  {"BIT", 1, Bool},
	BitAcc:               {"BIT_ACC", 1, Uint},
	Byte1:                {"BYTE_1", 1, Uint},
	Byte2:                {"BYTE_2", 1, Uint},
	CodeFragmentIndex:    {"CODE_FRAGMENT_INDEX", 8, Uint},
	Counter:              {"COUNTER", 2, Uint},
	DataGasCost:          {"DATA_GAS_COST", 8, Uint},
	DataHi:               {"DATA_HI", 32, Bytes},
	DataLo:               {"DATA_LO", 32, Bytes},
	Depth1:               {"DEPTH_1", 1, Bool},
	Depth2:               {"DEPTH_2", 1, Bool},
	Done:                 {"DONE", 1, Bool},
	IndexData:            {"INDEX_DATA", 8, Uint},
	IndexLt:              {"INDEX_LT", 8, Uint},
	IndexLx:              {"INDEX_LX", 8, Uint},
	Input1:               {"INPUT_1", 32, Bytes},
	Input2:               {"INPUT_2", 32, Bytes},
	IsPrefix:             {"IS_PREFIX", 1, Bool},
	LcCorrection:         {"LC_CORRECTION", 1, Bool},
	Limb:                 {"LIMB", 32, Bytes},
	LimbConstructed:      {"LIMB_CONSTRUCTED", 1, Bool},
	Lt:                   {"LT", 1, Bool},
	Lx:                   {"LX", 1, Bool},
	NAddr:                {"nADDR", 4, Uint},
	NBytes:               {"nBYTES", 2, Uint},
	NKeys:                {"nKEYS", 4, Uint},
	NKeysPerAddr:         {"nKEYS_PER_ADDR", 4, Uint},
	NStep:                {"nSTEP", 2, Uint},
	Phase0:               {"PHASE_0", 1, Bool},
	Phase1:               {"PHASE_1", 1, Bool},
	Phase2:               {"PHASE_2", 1, Bool},
	Phase3:               {"PHASE_3", 1, Bool},
	Phase4:               {"PHASE_4", 1, Bool},
	Phase5:               {"PHASE_5", 1, Bool},
	Phase6:               {"PHASE_6", 1, Bool},
	Phase7:               {"PHASE_7", 1, Bool},
	Phase8:               {"PHASE_8", 1, Bool},
	Phase9:               {"PHASE_9", 1, Bool},
	Phase10:              {"PHASE_10", 1, Bool},
	Phase11:              {"PHASE_11", 1, Bool},
	Phase12:              {"PHASE_12", 1, Bool},
	Phase13:              {"PHASE_13", 1, Bool},
	Phase14:              {"PHASE_14", 1, Bool},
	PhaseEnd:             {"PHASE_END", 1, Bool},
	PhaseSize:            {"PHASE_SIZE", 8, Uint},
	Power:                {"POWER", 32, Bytes},
	RequiresEvmExecution: {"REQUIRES_EVM_EXECUTION", 1, Bool},
	RlpLtBytesize:        {"RLP_LT_BYTESIZE", 4, Uint},
	RlpLxBytesize:        {"RLP_LX_BYTESIZE", 4, Uint},
	Type:                 {"TYPE", 2, Uint},
}

// Headers returns the column headers in table order.
func Headers() []Header {
	out := make([]Header, NumColumns)
	copy(out, headers[:])
	return out
}

func (c Column) Header() Header { return headers[c] }
func (c Column) String() string { return headers[c].Name }
func (c Column) Width() int     { return headers[c].Width }

// RowWidth is the number of bytes one row occupies across all columns.
func RowWidth() int {
	w := 0
	for _, h := range headers {
		w += h.Width
	}
	return w
}

// ColumnByName looks a column up by its header name.
func ColumnByName(name string) (Column, bool) {
	for c, h := range headers {
		if h.Name == name {
			return Column(c), true
		}
	}
	return 0, false
}
