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

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/rlptxn/common/dbg"
	"github.com/erigontech/rlptxn/logging"
	"github.com/erigontech/rlptxn/rlptxn"
	"github.com/erigontech/rlptxn/trace"
)

var (
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "Conflation JSON file",
	}

	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Trace file to write",
		Value: "rlptxn.trace",
	}

	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Transactions traced concurrently",
		Value: max(dbg.Workers, 1),
	}

	FileFlag = cli.StringFlag{
		Name:     "file",
		Usage:    "Trace file to read",
		Required: true,
	}

	RowsFlag = cli.IntFlag{
		Name:  "rows",
		Usage: "Rows to print, 0 for all",
		Value: 32,
	}
)

var traceCommand = cli.Command{
	Action: runTrace,
	Name:   "trace",
	Usage:  "trace a conflation into a trace file",
	Flags: withLogging(
		&ConfigFlag,
		&InputFlag,
		&OutputFlag,
		&WorkersFlag,
	),
}

var inspectCommand = cli.Command{
	Action: runInspect,
	Name:   "inspect",
	Usage:  "print the rows of a trace file",
	Flags: []cli.Flag{
		&FileFlag,
		&RowsFlag,
	},
}

func runTrace(cliCtx *cli.Context) error {
	if configFilePath := cliCtx.String(ConfigFlag.Name); configFilePath != "" {
		if err := setFlagsFromConfigFile(cliCtx, configFilePath); err != nil {
			log.Warn("failed setting config flags from yaml/toml file", "err", err)
		}
	}
	logger := logging.SetupLoggerCtx("rlptxn", cliCtx)
	start := time.Now()

	input := cliCtx.String(InputFlag.Name)
	if input == "" {
		return fmt.Errorf("--%s is required", InputFlag.Name)
	}
	c, err := loadConflation(input)
	if err != nil {
		return err
	}

	r := rlptxn.New(
		rlptxn.Config{Workers: cliCtx.Int(WorkersFlag.Name)},
		rlptxn.NewStaticCodeOracle(c.CodeAddresses...),
		&rlptxn.SequentialCodeIndex{},
		logger,
	)
	if err := feed(r, c); err != nil {
		return err
	}
	logger.Info("[rlptxn] conflation loaded", "txs", len(c.Transactions), "kept", r.Chunks(), "lines", r.LineCount())

	tbl, err := r.Commit()
	if err != nil {
		return err
	}

	fileSize := datasize.ByteSize(trace.FileSize(tbl.Len()))
	if dbg.MaxTraceSize > 0 && fileSize > dbg.MaxTraceSize {
		return fmt.Errorf("trace of %s exceeds limit %s", fileSize.HumanReadable(), dbg.MaxTraceSize.HumanReadable())
	}

	output := cliCtx.String(OutputFlag.Name)
	if err := trace.WriteFile(output, tbl); err != nil {
		return err
	}
	logger.Info("[rlptxn] trace written", "path", output, "rows", tbl.Len(), "size", fileSize.HumanReadable(),
		"keccak", tableHash(tbl), "took", time.Since(start))
	return nil
}

// tableHash is the keccak of all columns concatenated in table order.
func tableHash(tbl *trace.Table) common.Hash {
	h := crypto.NewKeccakState()
	for c := trace.Column(0); c < trace.NumColumns; c++ {
		h.Write(tbl.Column(c))
	}
	var out common.Hash
	h.Read(out[:])
	return out
}

func runInspect(cliCtx *cli.Context) error {
	tbl, err := trace.ReadFile(cliCtx.String(FileFlag.Name))
	if err != nil {
		return err
	}
	rows := tbl.Len()
	if limit := cliCtx.Int(RowsFlag.Name); limit > 0 && limit < rows {
		rows = limit
	}

	w := tabwriter.NewWriter(cliCtx.App.Writer, 0, 0, 1, ' ', 0)
	names := make([]string, trace.NumColumns)
	for i, h := range tbl.Headers() {
		names[i] = h.Name
	}
	fmt.Fprintln(w, strings.Join(names, "\t"))

	cells := make([]string, trace.NumColumns)
	for row := 0; row < rows; row++ {
		for c := trace.Column(0); c < trace.NumColumns; c++ {
			cells[c] = tbl.FormatCell(c, row)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cliCtx.App.Writer, "%d of %d rows, %s, keccak %s\n", rows, tbl.Len(), tbl.ByteSize().HumanReadable(), tableHash(tbl))
	return nil
}
