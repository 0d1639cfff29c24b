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

// Package rlptxn builds the RLP_TXN trace: for every transaction of a
// conflation, a row-level witness that rebuilds both its signing preimage
// (LT) and its signed encoding (LX) from 16-byte limbs.
package rlptxn

import (
	"time"

	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/rlptxn/common/stacked"
	"github.com/erigontech/rlptxn/trace"
	"github.com/erigontech/rlptxn/types"
)

type Config struct {
	// Workers above 1 trace chunks concurrently. The committed table does not
	// depend on it.
	Workers int
}

// Chunk is what the tracer keeps of a transaction until commit.
type Chunk struct {
	Tx                   types.Transaction
	RequiresEvmExecution bool

	codeID    int
	hasCodeID bool
}

type RlpTxn struct {
	cfg     Config
	chunks  *stacked.List[*Chunk]
	oracle  CodeOracle
	indexer CodeIndexer
	logger  log.Logger
}

func New(cfg Config, oracle CodeOracle, indexer CodeIndexer, logger log.Logger) *RlpTxn {
	if logger == nil {
		logger = log.Root()
	}
	return &RlpTxn{
		cfg:     cfg,
		chunks:  stacked.New[*Chunk](),
		oracle:  oracle,
		indexer: indexer,
		logger:  logger,
	}
}

func (r *RlpTxn) EnterTransaction() {
	r.chunks.Enter()
}

// PopTransaction drops every chunk recorded since the matching
// EnterTransaction.
func (r *RlpTxn) PopTransaction() {
	dropped := r.chunks.Pop()
	mxChunksPopped.AddInt(dropped)
	mxPendingChunks.SetInt(r.chunks.Len())
	if dropped > 0 {
		r.logger.Trace("[rlptxn] chunks popped", "dropped", dropped, "pending", r.chunks.Len())
	}
}

// requiresEvmExecution: creations run their init code when there is some,
// calls run when the recipient has code.
func (r *RlpTxn) requiresEvmExecution(tx types.Transaction) bool {
	to := tx.GetTo()
	if to == nil {
		return len(tx.GetData()) > 0
	}
	return r.oracle.HasCode(*to)
}

// TraceStartTx records tx as the next chunk. Only deployments get a code
// identifier; calls keep fragment index 0.
func (r *RlpTxn) TraceStartTx(tx types.Transaction) *Chunk {
	chunk := &Chunk{Tx: tx, RequiresEvmExecution: r.requiresEvmExecution(tx)}
	if chunk.RequiresEvmExecution && tx.GetTo() == nil {
		chunk.codeID = r.indexer.CodeIdentifier(tx)
		chunk.hasCodeID = true
	}
	r.chunks.Add(chunk)
	mxPendingChunks.SetInt(r.chunks.Len())
	return chunk
}

// Chunks is the number of transactions that will be committed.
func (r *RlpTxn) Chunks() int { return r.chunks.Len() }

// LineCount is the number of rows Commit will produce.
func (r *RlpTxn) LineCount() int {
	rows := 0
	for _, chunk := range r.chunks.All() {
		rows += ChunkRowSize(chunk.Tx)
	}
	return rows
}

// recoverTrace runs f and turns an abort raised by the encoder into an error.
// Other panics propagate.
func recoverTrace(f func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			traceErr, ok := asTraceError(rec)
			if !ok {
				panic(rec)
			}
			err = traceErr
		}
	}()
	f()
	return nil
}

type segment struct {
	chunk             *Chunk
	absTxNum          int
	codeFragmentIndex int
	rows              int
}

// traceSegment appends the rows of one chunk to tr and checks the count
// against the prediction.
func traceSegment(c *chunkTracer, s segment, absTxNumInfiny int) {
	before := c.tr.Size()
	c.traceChunk(s.chunk.Tx, s.absTxNum, absTxNumInfiny, s.chunk.RequiresEvmExecution, s.codeFragmentIndex)
	if actual := c.tr.Size() - before; actual != s.rows {
		panic(&RowCountError{AbsTxNum: s.absTxNum, Predicted: s.rows, Actual: actual})
	}
}

// Commit traces every live chunk in arrival order. On failure no table is
// returned.
func (r *RlpTxn) Commit() (*trace.Table, error) {
	start := time.Now()
	n := r.chunks.Len()

	segments := make([]segment, 0, n)
	totalRows := 0
	for _, chunk := range r.chunks.All() {
		s := segment{chunk: chunk, absTxNum: len(segments) + 1, rows: ChunkRowSize(chunk.Tx)}
		if chunk.hasCodeID {
			s.codeFragmentIndex = r.indexer.CodeFragmentIndex(chunk.codeID)
		}
		totalRows += s.rows
		segments = append(segments, s)
	}

	var (
		tbl *trace.Table
		err error
	)
	if r.cfg.Workers > 1 && n > 1 {
		tbl, err = r.commitParallel(segments)
	} else {
		tbl, err = r.commitSequential(segments, totalRows)
	}
	if err != nil {
		mxCommitAborted.Inc()
		r.logger.Error("[rlptxn] commit aborted", "txs", n, "err", err)
		return nil, err
	}

	mxTxTraced.AddInt(n)
	mxRows.AddInt(tbl.Len())
	r.logger.Info("[rlptxn] trace committed", "txs", n, "rows", tbl.Len(), "size", tbl.ByteSize().HumanReadable(), "took", time.Since(start))
	return tbl, nil
}

func (r *RlpTxn) commitSequential(segments []segment, totalRows int) (*trace.Table, error) {
	c := newChunkTracer(trace.New(totalRows))
	err := recoverTrace(func() {
		for _, s := range segments {
			traceSegment(c, s, len(segments))
			r.logger.Trace("[rlptxn] chunk traced", "absTxNum", s.absTxNum, "type", s.chunk.Tx.Type(), "rows", s.rows)
		}
	})
	if err != nil {
		return nil, err
	}
	return c.tr.Build(), nil
}

func (r *RlpTxn) commitParallel(segments []segment) (*trace.Table, error) {
	tables := make([]*trace.Table, len(segments))

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	for i, s := range segments {
		g.Go(func() error {
			c := newChunkTracer(trace.New(s.rows))
			if err := recoverTrace(func() { traceSegment(c, s, len(segments)) }); err != nil {
				return err
			}
			tables[i] = c.tr.Build()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trace.Concat(tables...), nil
}
