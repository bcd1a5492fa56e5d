// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/chaind/chaind/wire"
)

// genesisTx is the only transaction of the genesis block.
var genesisTx = wire.Transaction{
	ID:        "b3c973e2-db05-4eb5-9668-3e81c7389a6d",
	Timestamp: 0,
	Payload:   "I am Heribert Innoq",
}

// genesisHash is the SHA-256 hash of the genesis block.
const genesisHash = "000000b642b67d8bea7cffed1ec990719a3f7837de5ef0f8ede36537e91cdc0e"

// genesisBlock returns a fresh copy of the first block of the chain.  A new
// value is built on every call so callers can never modify a shared genesis
// block.
func genesisBlock() wire.Block {
	return wire.Block{
		Index:             1,
		Timestamp:         0,
		Proof:             1917336,
		Transactions:      []wire.Transaction{genesisTx},
		PreviousBlockHash: "0",
	}
}
