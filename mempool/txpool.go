// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/chaind/chaind/wire"
	"github.com/sasha-s/go-deadlock"
)

const (
	// initialCapacity is the number of pending transactions the pool
	// reserves room for up front.
	initialCapacity = 64
)

// ErrPoolFull describes an error where a transaction could not be queued
// because the pool already holds the configured maximum number of pending
// transactions.
var ErrPoolFull = errors.New("transaction pool is full")

// Config is a descriptor containing the memory pool configuration.
type Config struct {
	// MaxSize is the maximum number of pending transactions.  Zero means
	// the pool is unbounded.
	MaxSize int

	// Now returns the current time.  It defaults to time.Now and is
	// primarily overridden by tests.
	Now func() time.Time
}

// TxPool is a concurrency safe pool of pending transactions ordered by
// ascending timestamp.  Transactions with equal timestamps are selected in no
// particular order.
type TxPool struct {
	// The following variables must only be used atomically.
	lastUpdated int64 // last time pool was updated

	mtx     deadlock.Mutex
	cfg     Config
	pending *PriorityQueue[wire.Transaction]
}

// New returns a new memory pool for pending transactions.
func New(cfg *Config) *TxPool {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	return &TxPool{
		cfg: c,
		pending: NewPriorityQueue(func(a, b wire.Transaction) bool {
			return a.Timestamp < b.Timestamp
		}, initialCapacity),
	}
}

// Queue creates a new transaction for the passed payload, stamps it with the
// current time, and adds it to the pool.  The only failure is ErrPoolFull
// when the pool is bounded.
//
// This function is safe for concurrent access.
func (mp *TxPool) Queue(payload string) (*wire.Transaction, error) {
	now := mp.cfg.Now()
	tx := wire.NewTransaction(payload, now.UnixMilli())

	mp.mtx.Lock()
	if mp.cfg.MaxSize > 0 && mp.pending.Len() >= mp.cfg.MaxSize {
		mp.mtx.Unlock()
		log.Debugf("Rejected transaction %s: pool holds %d transactions",
			tx.ID, mp.cfg.MaxSize)
		return nil, ErrPoolFull
	}
	mp.pending.Push(tx)
	count := mp.pending.Len()
	mp.mtx.Unlock()

	atomic.StoreInt64(&mp.lastUpdated, now.Unix())
	log.Tracef("Accepted transaction %s (pool size %d)", tx.ID, count)
	return &tx, nil
}

// SelectTransactions removes up to maxCount transactions from the pool and
// returns them ordered by ascending timestamp.  Fewer are returned when the
// pool is smaller and an empty slice when it is empty.  Removal is final:
// selected transactions are never put back.
//
// This function is safe for concurrent access.  No transaction is ever
// returned by more than one call.
func (mp *TxPool) SelectTransactions(maxCount int) []wire.Transaction {
	mp.mtx.Lock()
	n := mp.pending.Len()
	if maxCount < n {
		n = maxCount
	}
	if n < 0 {
		n = 0
	}
	selected := make([]wire.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx, _ := mp.pending.Pop()
		selected = append(selected, tx)
	}
	mp.mtx.Unlock()

	if len(selected) > 0 {
		atomic.StoreInt64(&mp.lastUpdated, mp.cfg.Now().Unix())
	}
	return selected
}

// Count returns the number of pending transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) Count() int {
	mp.mtx.Lock()
	count := mp.pending.Len()
	mp.mtx.Unlock()

	return count
}

// Pending returns a snapshot of all pending transactions in the order they
// would be selected.  The pool is not modified.
//
// This function is safe for concurrent access.
func (mp *TxPool) Pending() []wire.Transaction {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.pending.Sorted()
}

// LastUpdated returns the last time a transaction was added to or selected
// from the pool.
//
// This function is safe for concurrent access.
func (mp *TxPool) LastUpdated() time.Time {
	return time.Unix(atomic.LoadInt64(&mp.lastUpdated), 0)
}
