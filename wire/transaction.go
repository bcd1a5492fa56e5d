// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/google/uuid"
)

// Transaction is an arbitrary, untyped entry which can be carried by a block.
// The payload is never interpreted.
type Transaction struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Payload   string `json:"payload"`
}

// NewTransaction returns a transaction for the passed payload stamped with
// the given millisecond timestamp and a freshly generated random identifier.
func NewTransaction(payload string, timestamp int64) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		Payload:   payload,
	}
}
