// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/chaincfg"
	"github.com/chaind/chaind/wire"
	"github.com/stretchr/testify/require"
)

// countingHasher wraps a hasher and counts the candidates it evaluated.
type countingHasher struct {
	Hasher
	count atomic.Int64
}

func (h *countingHasher) Hash(block *wire.Block) string {
	h.count.Add(1)
	return h.Hasher.Hash(block)
}

// newTestHasher returns the default SHA-256 hash pipeline.
func newTestHasher(t *testing.T) *blockhash.Hasher {
	t.Helper()
	h, err := blockhash.New(nil)
	require.NoError(t, err)
	return h
}

// newTestTemplate returns a template extending the genesis block.
func newTestTemplate(t *testing.T, h *blockhash.Hasher) wire.Block {
	t.Helper()
	genesis := chaincfg.MainNetParams.GenesisBlock()
	txns := []wire.Transaction{wire.NewTransaction("payload", 1526300000000)}
	return wire.NewBlockTemplate(2, 1526300000001, txns, h.Hash(&genesis))
}

// TestSearch ensures a search returns a sealed block meeting the difficulty
// without modifying the template.
func TestSearch(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)
	for _, numWorkers := range []int{1, 3, 8} {
		m := New(&Config{Hasher: h, Difficulty: 3, NumWorkers: numWorkers})
		require.Equal(t, numWorkers, m.NumWorkers())

		template := newTestTemplate(t, h)
		pristine := template.Copy()

		block, err := m.Search(context.Background(), &template)
		require.NoError(t, err)
		require.True(t, block.IsSealed())
		require.GreaterOrEqual(t, block.Proof, int64(0))
		require.True(t, blockhash.MeetsDifficulty(h.Hash(block), 3),
			"hash %s", h.Hash(block))

		require.Equal(t, pristine, template)
		sealed := block.Copy()
		sealed.Proof = wire.UnsealedProof
		require.Equal(t, pristine, sealed)
		require.GreaterOrEqual(t, m.HashesPerSecond(), float64(0))
	}
}

// TestSearchDefaultWorkers ensures a non-positive worker count selects one
// worker per processor core.
func TestSearchDefaultWorkers(t *testing.T) {
	t.Parallel()

	m := New(&Config{Hasher: newTestHasher(t), NumWorkers: -1})
	require.Equal(t, defaultNumWorkers, m.NumWorkers())
}

// TestSearchRejectsSealedBlock ensures only templates can be searched.
func TestSearchRejectsSealedBlock(t *testing.T) {
	t.Parallel()

	m := New(&Config{Hasher: newTestHasher(t), Difficulty: 1})
	genesis := chaincfg.MainNetParams.GenesisBlock()
	block, err := m.Search(context.Background(), &genesis)
	require.ErrorIs(t, err, ErrNotTemplate)
	require.Nil(t, block)
}

// TestSearchZeroDifficulty ensures every candidate satisfies a zero
// difficulty, so exactly one of the first proofs wins.
func TestSearchZeroDifficulty(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)
	m := New(&Config{Hasher: h, Difficulty: 0, NumWorkers: 4})
	template := newTestTemplate(t, h)

	block, err := m.Search(context.Background(), &template)
	require.NoError(t, err)
	require.Less(t, block.Proof, int64(4))
}

// TestSearchBoundedUnsatisfiable ensures a bounded search against a
// difficulty that can never be met evaluates exactly the allowed proofs and
// then fails.
func TestSearchBoundedUnsatisfiable(t *testing.T) {
	t.Parallel()

	h := &countingHasher{Hasher: newTestHasher(t)}
	m := New(&Config{
		Hasher:     h,
		Difficulty: chaincfg.MaxDifficulty + 1,
		NumWorkers: 3,
		MaxTrials:  100,
	})
	template := newTestTemplate(t, newTestHasher(t))

	block, err := m.Search(context.Background(), &template)
	require.ErrorIs(t, err, ErrProofNotFound)
	require.Nil(t, block)
	require.Equal(t, int64(100), h.count.Load())
}

// TestSearchUnboundedUnsatisfiable ensures an unbounded search against a
// difficulty that can never be met keeps running and only returns once its
// context is canceled.
func TestSearchUnboundedUnsatisfiable(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)
	m := New(&Config{
		Hasher:     h,
		Difficulty: chaincfg.MaxDifficulty + 1,
		NumWorkers: 2,
	})
	template := newTestTemplate(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Search(ctx, &template)
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("search returned before cancellation: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop after cancellation")
	}
}

// TestSearchStopsLosers ensures no candidate is evaluated once a search has
// returned.
func TestSearchStopsLosers(t *testing.T) {
	t.Parallel()

	h := &countingHasher{Hasher: newTestHasher(t)}
	m := New(&Config{Hasher: h, Difficulty: 2, NumWorkers: 8})
	template := newTestTemplate(t, newTestHasher(t))

	_, err := m.Search(context.Background(), &template)
	require.NoError(t, err)

	evaluated := h.count.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, evaluated, h.count.Load())
}
