// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/wire"
	"golang.org/x/sync/errgroup"
)

const (
	// hashUpdateInterval is the number of candidates each worker evaluates
	// between reports to the shared hash counter.  This is done to reduce
	// the amount of syncs between the workers.
	hashUpdateInterval = 1024
)

var (
	// ErrNotTemplate describes an error where the block passed to Search
	// already carries a proof.
	ErrNotTemplate = errors.New("block is not an unsealed template")

	// ErrProofNotFound describes an error where a bounded search tried
	// every allowed proof without finding one that satisfies the
	// difficulty.
	ErrProofNotFound = errors.New("no proof satisfies the difficulty")
)

var (
	// defaultNumWorkers is the default number of workers to use for mining
	// and is based on the number of processor cores.
	defaultNumWorkers = runtime.NumCPU()
)

// Hasher computes the hash of a block.
type Hasher interface {
	Hash(block *wire.Block) string
}

// Config is a descriptor containing the cpu miner configuration.
type Config struct {
	// Hasher is the hash pipeline used to evaluate candidates.
	Hasher Hasher

	// Difficulty is the number of leading zero hex characters a candidate
	// hash must have.
	Difficulty int

	// NumWorkers is the number of concurrent search goroutines.  Zero or a
	// negative value selects one worker per processor core.
	NumWorkers int

	// MaxTrials bounds the search to the proofs [0, MaxTrials).  Zero
	// means the search is unbounded and only returns once a proof is found
	// or the context is canceled.
	MaxTrials int64
}

// CPUMiner provides facilities for solving block templates using the CPU in
// a concurrency-safe manner.  Each search fans out over a fixed number of
// worker goroutines which stride through the proof space; the first worker
// to find a satisfying proof wins and all others are stopped.
type CPUMiner struct {
	cfg        Config
	numWorkers int

	mtx          sync.Mutex
	hashesPerSec float64
}

// New returns a new instance of a CPU miner for the provided configuration.
func New(cfg *Config) *CPUMiner {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}

	return &CPUMiner{
		cfg:        *cfg,
		numWorkers: numWorkers,
	}
}

// NumWorkers returns the number of workers used by each search.
func (m *CPUMiner) NumWorkers() int {
	return m.numWorkers
}

// Difficulty returns the difficulty searched for.
func (m *CPUMiner) Difficulty() int {
	return m.cfg.Difficulty
}

// HashesPerSecond returns the hash rate of the most recently completed search.
//
// This function is safe for concurrent access.
func (m *CPUMiner) HashesPerSecond() float64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.hashesPerSec
}

// Search looks for a proof which makes the hash of the passed template
// satisfy the configured difficulty and returns the sealed block.  The
// template itself is never modified.
//
// Proofs are distributed over the workers so that worker w of n evaluates
// w, w+n, w+2n and so on.  The first satisfying proof found by any worker is
// returned; it is not necessarily the smallest one.  Search only returns
// after every worker has stopped, so no evaluation outlives it.
//
// When the search is unbounded and the difficulty can never be met, Search
// only returns once ctx is canceled.
func (m *CPUMiner) Search(ctx context.Context, template *wire.Block) (*wire.Block, error) {
	if template.IsSealed() {
		return nil, ErrNotTemplate
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(searchCtx)

	var (
		once   sync.Once
		solved *wire.Block
		hashes atomic.Uint64
	)
	found := func(block *wire.Block) {
		once.Do(func() {
			solved = block
			cancel()
		})
	}

	log.Tracef("Searching proof for block %d with %d workers",
		template.Index, m.numWorkers)
	start := time.Now()
	for w := 0; w < m.numWorkers; w++ {
		first := int64(w)
		g.Go(func() error {
			m.solveBlock(gctx, template, first, &hashes, found)
			return nil
		})
	}
	_ = g.Wait()

	m.updateHashRate(hashes.Load(), time.Since(start))

	if solved != nil {
		return solved, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrProofNotFound
}

// solveBlock evaluates the proofs first, first+n, first+2n and so on for the
// passed template until a satisfying one is found, the context is canceled,
// or the trial bound is reached.  It must be run as a goroutine.
func (m *CPUMiner) solveBlock(ctx context.Context, template *wire.Block,
	first int64, hashes *atomic.Uint64, found func(*wire.Block)) {

	stride := int64(m.numWorkers)
	hashesCompleted := uint64(0)
	defer func() {
		hashes.Add(hashesCompleted)
	}()

	for proof := first; m.cfg.MaxTrials == 0 || proof < m.cfg.MaxTrials; proof += stride {
		select {
		case <-ctx.Done():
			return
		default:
		}

		candidate := template.WithProof(proof)
		hash := m.cfg.Hasher.Hash(&candidate)
		hashesCompleted++
		if hashesCompleted%hashUpdateInterval == 0 {
			hashes.Add(hashesCompleted)
			hashesCompleted = 0
		}

		if blockhash.MeetsDifficulty(hash, m.cfg.Difficulty) {
			log.Debugf("Found proof %d for block %d (hash %s)", proof,
				template.Index, hash)
			found(&candidate)
			return
		}
	}
}

// updateHashRate records the hash rate of a completed search.
func (m *CPUMiner) updateHashRate(hashes uint64, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	hashesPerSec := float64(hashes) / elapsed.Seconds()

	m.mtx.Lock()
	m.hashesPerSec = hashesPerSec
	m.mtx.Unlock()

	log.Debugf("Hash speed: %6.0f kilohashes/s", hashesPerSec/1000)
}
