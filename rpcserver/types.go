// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"github.com/chaind/chaind/wire"
)

// Event names used in the websocket event stream.
const (
	EventNewBlock       = "new_block"
	EventNewTransaction = "new_transaction"
)

// StatusResult models the data returned from the status endpoint.
type StatusResult struct {
	NodeID             string `json:"nodeId"`
	CurrentBlockHeight int    `json:"currentBlockHeight"`
}

// BlocksResult models the data returned from the blocks endpoint.
type BlocksResult struct {
	Blocks      []wire.Block `json:"blocks"`
	BlockHeight int          `json:"blockHeight"`
}

// PendingResult models the data returned from the pending transactions
// endpoint.
type PendingResult struct {
	Transactions []wire.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

// ErrorResult is the body of every failed request.
type ErrorResult struct {
	Error string `json:"error"`
}

// Event is a single message of the websocket event stream.  Data holds a
// block for new_block events and a transaction for new_transaction events.
// IDs increase by one with every published event.
type Event struct {
	Event string      `json:"event"`
	ID    int64       `json:"id"`
	Data  interface{} `json:"data"`
}
