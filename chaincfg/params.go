// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the chain parameters: the genesis block supplier,
// the proof-of-work difficulty, and the block size limit.
package chaincfg

import (
	"errors"
	"strings"

	"github.com/chaind/chaind/wire"
)

const (
	// DefaultDifficulty is the number of leading zero hex characters a
	// sealed block hash must have.
	DefaultDifficulty = 6

	// MaxDifficulty is the largest difficulty that can ever be satisfied
	// by a 256-bit digest rendered as hex.
	MaxDifficulty = 64

	// MaxBlockTransactions is the maximum number of transactions selected
	// into a single block.
	MaxBlockTransactions = 5
)

// ErrUnknownNet describes an error where the requested network parameters
// are not registered.
var ErrUnknownNet = errors.New("unknown network")

// Params defines a chain by its genesis block and proof-of-work rules.
type Params struct {
	// Name is a human-readable identifier for the chain.
	Name string

	// GenesisBlock supplies the first block of the chain.  It is invoked
	// exactly once per chain instance.
	GenesisBlock func() wire.Block

	// GenesisHash is the SHA-256 hash of the genesis block.
	GenesisHash string

	// Difficulty is the required count of leading zero hex characters in
	// the hash of every mined block.
	Difficulty int

	// MaxBlockTransactions is the maximum number of pending transactions
	// taken into a block template.
	MaxBlockTransactions int
}

// MainNetParams defines the parameters of the default chain.
var MainNetParams = Params{
	Name:                 "mainnet",
	GenesisBlock:         genesisBlock,
	GenesisHash:          genesisHash,
	Difficulty:           DefaultDifficulty,
	MaxBlockTransactions: MaxBlockTransactions,
}

// SimNetParams defines the parameters of a chain intended for private use
// and local development.  It shares the genesis block of the main chain but
// seals new blocks with a much lower difficulty so they are found instantly.
var SimNetParams = Params{
	Name:                 "simnet",
	GenesisBlock:         genesisBlock,
	GenesisHash:          genesisHash,
	Difficulty:           2,
	MaxBlockTransactions: MaxBlockTransactions,
}

// registeredNets holds the parameters selectable by name.
var registeredNets = map[string]*Params{
	MainNetParams.Name: &MainNetParams,
	SimNetParams.Name:  &SimNetParams,
}

// ParamsByName returns the registered parameters for the named chain.  The
// lookup is case insensitive.
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNets[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownNet
	}
	return params, nil
}
