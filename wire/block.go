// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// UnsealedProof is the proof value carried by a block template which has not
// been solved yet.
const UnsealedProof int64 = -1

// Block is a building block of the chain.  The index of the genesis block is
// 1 and its previous block hash is "0".
type Block struct {
	Index             int64         `json:"index"`
	Timestamp         int64         `json:"timestamp"`
	Proof             int64         `json:"proof"`
	Transactions      []Transaction `json:"transactions"`
	PreviousBlockHash string        `json:"previousBlockHash"`
}

// NewBlockTemplate returns an unsealed block extending the block identified
// by prevHash.  The transactions are copied so later changes to the passed
// slice are not reflected in the template.
func NewBlockTemplate(index, timestamp int64, txns []Transaction, prevHash string) Block {
	return Block{
		Index:             index,
		Timestamp:         timestamp,
		Proof:             UnsealedProof,
		Transactions:      copyTransactions(txns),
		PreviousBlockHash: prevHash,
	}
}

// WithProof returns a new candidate block which is identical to b except for
// the proof.  b is not modified.
func (b *Block) WithProof(proof int64) Block {
	return Block{
		Index:             b.Index,
		Timestamp:         b.Timestamp,
		Proof:             proof,
		Transactions:      b.Transactions,
		PreviousBlockHash: b.PreviousBlockHash,
	}
}

// IsSealed returns whether the block carries a proof, that is, whether it is
// anything other than a template.
func (b *Block) IsSealed() bool {
	return b.Proof != UnsealedProof
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() Block {
	c := *b
	c.Transactions = copyTransactions(b.Transactions)
	return c
}

// copyTransactions returns a copy of txns.  The result is never nil so an
// empty transaction list always serializes as an empty JSON array.
func copyTransactions(txns []Transaction) []Transaction {
	c := make([]Transaction, len(txns))
	copy(c, txns)
	return c
}
