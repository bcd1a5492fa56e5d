// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockhash implements the deterministic hash pipeline which gates
// block acceptance: a block is serialized to its canonical JSON form, run
// through a digest function, and rendered as lowercase hex.
package blockhash

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/chaind/chaind/wire"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Supported digest algorithm names.
const (
	DigestSHA256  = "sha256"
	DigestSHA3    = "sha3-256"
	DigestBlake2b = "blake2b-256"
)

// ErrUnknownDigest describes an error where the requested digest algorithm is
// not available.  No block hash can be produced without one, so it is only
// ever returned from New.
var ErrUnknownDigest = errors.New("unknown digest algorithm")

// DigestFunc computes a fixed length digest of the passed bytes.  It must be
// safe for concurrent use.
type DigestFunc func([]byte) []byte

// digests maps each supported algorithm name to its digest function.  Each
// function allocates its own state, so none of them share anything between
// concurrent callers.
var digests = map[string]DigestFunc{
	DigestSHA256: chainhash.HashB,
	DigestSHA3: func(b []byte) []byte {
		h := sha3.Sum256(b)
		return h[:]
	},
	DigestBlake2b: func(b []byte) []byte {
		h := blake2b.Sum256(b)
		return h[:]
	},
}

// SupportedDigests returns the sorted names of all available digest
// algorithms.
func SupportedDigests() []string {
	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Observer is notified with the duration of every hash computation.
// Implementations must be safe for concurrent use since hashes are computed
// by many mining workers at once.
type Observer interface {
	ObserveHash(elapsed time.Duration)
}

// Config is a descriptor containing the hash pipeline configuration.
type Config struct {
	// Digest names the digest algorithm.  It defaults to DigestSHA256.
	Digest string

	// Observer is an optional sink timing each hash computation.
	Observer Observer
}

// Hasher computes block hashes.  It holds no mutable state and is safe for
// concurrent access.
type Hasher struct {
	algorithm string
	digest    DigestFunc
	observer  Observer
}

// New returns a hasher for the provided configuration.  A nil config selects
// SHA-256 without an observer.
func New(cfg *Config) (*Hasher, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Digest == "" {
		c.Digest = DigestSHA256
	}

	algorithm := strings.ToLower(c.Digest)
	digest, ok := digests[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported %v)", ErrUnknownDigest,
			c.Digest, SupportedDigests())
	}

	return &Hasher{
		algorithm: algorithm,
		digest:    digest,
		observer:  c.Observer,
	}, nil
}

// Algorithm returns the name of the digest algorithm in use.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns the lowercase hex encoded digest of the canonical
// serialization of the passed block.  Blocks that are equal field by field
// always hash identically, also across process runs.
func (h *Hasher) Hash(block *wire.Block) string {
	if h.observer == nil {
		return h.hash(block)
	}

	start := time.Now()
	hash := h.hash(block)
	h.observer.ObserveHash(time.Since(start))
	return hash
}

func (h *Hasher) hash(block *wire.Block) string {
	return hex.EncodeToString(h.digest(Serialize(block)))
}

// Check returns whether the hash of the passed block satisfies the given
// difficulty along with the hash itself.
func (h *Hasher) Check(block *wire.Block, difficulty int) (string, bool) {
	hash := h.Hash(block)
	return hash, MeetsDifficulty(hash, difficulty)
}

// Serialize returns the canonical byte encoding of the passed block.  The
// encoding only depends on the field values of the block: struct fields are
// always emitted in declaration order and a nil transaction list encodes the
// same as an empty one.
func Serialize(block *wire.Block) []byte {
	b := block
	if b.Transactions == nil {
		c := *block
		c.Transactions = []wire.Transaction{}
		b = &c
	}

	serialized, err := json.Marshal(b)
	if err != nil {
		// The wire types only contain strings and integers, so this
		// can only happen if they are changed to something json can
		// not encode.
		panic(fmt.Sprintf("unable to serialize block %d: %v",
			block.Index, err))
	}
	return serialized
}

// MeetsDifficulty returns whether the passed hex encoded hash starts with at
// least difficulty '0' characters.  A difficulty larger than the hash itself
// can never be met.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty > len(hash) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}
	return true
}
