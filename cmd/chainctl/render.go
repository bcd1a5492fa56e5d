// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/rpcserver"
	"github.com/chaind/chaind/wire"
	"github.com/pterm/pterm"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printTable renders rows as a table whose first row is the header.
func printTable(w io.Writer, rows pterm.TableData) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// formatTimestamp renders a millisecond timestamp.
func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}

// printStatus renders the node status.
func printStatus(w io.Writer, status *rpcserver.StatusResult) error {
	return printTable(w, pterm.TableData{
		{"Node ID", "Block height"},
		{status.NodeID, strconv.Itoa(status.CurrentBlockHeight)},
	})
}

// printBlocks renders blocks one per row along with their hashes.
func printBlocks(w io.Writer, hasher *blockhash.Hasher, blocks []wire.Block) error {
	rows := pterm.TableData{
		{"Index", "Timestamp", "Proof", "Transactions", "Hash", "Previous hash"},
	}
	for i := range blocks {
		block := &blocks[i]
		rows = append(rows, []string{
			strconv.FormatInt(block.Index, 10),
			formatTimestamp(block.Timestamp),
			strconv.FormatInt(block.Proof, 10),
			strconv.Itoa(len(block.Transactions)),
			hasher.Hash(block),
			block.PreviousBlockHash,
		})
	}
	return printTable(w, rows)
}

// printTransactions renders transactions one per row.
func printTransactions(w io.Writer, txns []wire.Transaction) error {
	rows := pterm.TableData{{"ID", "Timestamp", "Payload"}}
	for _, tx := range txns {
		rows = append(rows, []string{tx.ID, formatTimestamp(tx.Timestamp),
			tx.Payload})
	}
	return printTable(w, rows)
}

// printBlock renders a single block and its transactions.
func printBlock(w io.Writer, hasher *blockhash.Hasher, block *wire.Block) error {
	if err := printBlocks(w, hasher, []wire.Block{*block}); err != nil {
		return err
	}
	if len(block.Transactions) == 0 {
		return nil
	}
	return printTransactions(w, block.Transactions)
}

// printEvent renders a single event of the event stream.
func printEvent(w io.Writer, hasher *blockhash.Hasher, e *event) error {
	switch e.Event {
	case rpcserver.EventNewBlock:
		var block wire.Block
		if err := json.Unmarshal(e.Data, &block); err != nil {
			return err
		}
		_, err := fmt.Fprint(w, pterm.Success.Sprintfln("#%d new block %d "+
			"with %d transactions (%s)", e.ID, block.Index,
			len(block.Transactions), hasher.Hash(&block)))
		return err

	case rpcserver.EventNewTransaction:
		var tx wire.Transaction
		if err := json.Unmarshal(e.Data, &tx); err != nil {
			return err
		}
		_, err := fmt.Fprint(w, pterm.Info.Sprintfln("#%d new transaction "+
			"%s: %q", e.ID, tx.ID, tx.Payload))
		return err
	}

	_, err := fmt.Fprint(w, pterm.Warning.Sprintfln("#%d unknown event %q",
		e.ID, e.Event))
	return err
}
