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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/erigontech/rlptxn/trace"
)

var (
	ErrTraceAborted     = errors.New("rlptxn: trace aborted")
	ErrFieldTooWide     = errors.New("field wider than its window")
	ErrInvalidSignature = errors.New("invalid signature value")
)

// ContractViolationError reports a transaction field the encoder cannot
// represent. The transaction should never have reached the tracer.
type ContractViolationError struct {
	AbsTxNum int
	Field    string
	Err      error
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("tx %d: %s: %v", e.AbsTxNum, e.Field, e.Err)
}

func (e *ContractViolationError) Unwrap() error { return e.Err }

// DivergenceError reports a reconstructed encoding that differs from the
// reference encoder's output.
type DivergenceError struct {
	AbsTxNum int
	Encoding string // "LT" or "LX"
	Offset   int    // first differing byte
	Expected []byte
	Actual   []byte
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("tx %d: reconstructed %s diverges at byte %d: expected %s, got %s",
		e.AbsTxNum, e.Encoding, e.Offset, hexutil.Encode(e.Expected), hexutil.Encode(e.Actual))
}

// RowCountError reports a chunk whose emitted rows differ from the prediction.
type RowCountError struct {
	AbsTxNum  int
	Predicted int
	Actual    int
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("tx %d: emitted %d rows, predicted %d", e.AbsTxNum, e.Actual, e.Predicted)
}

// ByteSizeError reports a byte-size counter that went negative or did not
// reach zero at the end of its scope.
type ByteSizeError struct {
	AbsTxNum int
	Phase    int
	Counter  string
	Value    int
}

func (e *ByteSizeError) Error() string {
	return fmt.Sprintf("tx %d, phase %d: %s ends at %d", e.AbsTxNum, e.Phase, e.Counter, e.Value)
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// asTraceError converts a recovered panic value raised by the encoder into
// an error. Anything else is not ours to handle.
func asTraceError(r any) (error, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var (
		contract  *ContractViolationError
		diverge   *DivergenceError
		rowCount  *RowCountError
		byteSize  *ByteSizeError
		rowErr    *trace.RowError
		columnErr *trace.ColumnError
	)
	switch {
	case errors.As(err, &contract), errors.As(err, &diverge), errors.As(err, &rowCount),
		errors.As(err, &byteSize), errors.As(err, &rowErr), errors.As(err, &columnErr):
		return fmt.Errorf("%w: %w", ErrTraceAborted, err), true
	}
	return nil, false
}
