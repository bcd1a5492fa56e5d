// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sync"
	"testing"
	"time"

	"github.com/chaind/chaind/wire"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock used to control transaction
// timestamps.
type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mtx.Lock()
	c.now = t
	c.mtx.Unlock()
}

// TestSelectTransactionsDrainsPool ensures repeated selections against a
// pool with three transactions return two, one, and then none of them.
func TestSelectTransactionsDrainsPool(t *testing.T) {
	t.Parallel()

	mp := New(nil)
	queued := make(map[string]struct{})
	for _, payload := range []string{"a", "b", "c"} {
		tx, err := mp.Queue(payload)
		require.NoError(t, err)
		queued[tx.ID] = struct{}{}
	}
	require.Equal(t, 3, mp.Count())

	first := mp.SelectTransactions(2)
	require.Len(t, first, 2)
	require.Equal(t, 1, mp.Count())

	second := mp.SelectTransactions(2)
	require.Len(t, second, 1)
	require.Equal(t, 0, mp.Count())

	third := mp.SelectTransactions(2)
	require.NotNil(t, third)
	require.Empty(t, third)

	for _, tx := range append(first, second...) {
		_, ok := queued[tx.ID]
		require.True(t, ok, "unknown transaction %s", tx.ID)
		delete(queued, tx.ID)
	}
	require.Empty(t, queued)
}

// TestSelectTransactionsOrder ensures transactions are selected by ascending
// timestamp regardless of the order they were queued in.
func TestSelectTransactionsOrder(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	mp := New(&Config{Now: clock.Now})

	base := time.UnixMilli(1526300000000)
	for _, offset := range []int{30, 10, 50, 20, 40} {
		clock.Set(base.Add(time.Duration(offset) * time.Millisecond))
		_, err := mp.Queue("tx")
		require.NoError(t, err)
	}

	pending := mp.Pending()
	require.Len(t, pending, 5)
	require.Equal(t, 5, mp.Count(), "snapshot must not drain the pool")

	selected := mp.SelectTransactions(5)
	require.Equal(t, pending, selected)

	want := base.UnixMilli()
	for i, tx := range selected {
		require.Equal(t, want+int64((i+1)*10), tx.Timestamp)
	}
}

// TestSelectTransactionsBounds ensures zero and negative selections return
// an empty slice without touching the pool.
func TestSelectTransactionsBounds(t *testing.T) {
	t.Parallel()

	mp := New(nil)
	_, err := mp.Queue("a")
	require.NoError(t, err)

	require.Empty(t, mp.SelectTransactions(0))
	require.Empty(t, mp.SelectTransactions(-1))
	require.Equal(t, 1, mp.Count())
}

// TestQueuePoolFull ensures a bounded pool rejects transactions once full
// and accepts them again after a selection.
func TestQueuePoolFull(t *testing.T) {
	t.Parallel()

	mp := New(&Config{MaxSize: 2})
	for i := 0; i < 2; i++ {
		_, err := mp.Queue("tx")
		require.NoError(t, err)
	}

	tx, err := mp.Queue("tx")
	require.ErrorIs(t, err, ErrPoolFull)
	require.Nil(t, tx)
	require.Equal(t, 2, mp.Count())

	require.Len(t, mp.SelectTransactions(1), 1)
	_, err = mp.Queue("tx")
	require.NoError(t, err)
}

// TestLastUpdated ensures the last updated time tracks queue and select.
func TestLastUpdated(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	mp := New(&Config{Now: clock.Now})
	require.Equal(t, time.Unix(0, 0), mp.LastUpdated())

	_, err := mp.Queue("a")
	require.NoError(t, err)
	require.Equal(t, time.Unix(1000, 0), mp.LastUpdated())

	clock.Set(time.Unix(2000, 0))
	mp.SelectTransactions(1)
	require.Equal(t, time.Unix(2000, 0), mp.LastUpdated())
}

// TestConcurrentQueueAndSelect ensures concurrent queueing interleaved with
// selection never loses or duplicates a transaction.
func TestConcurrentQueueAndSelect(t *testing.T) {
	t.Parallel()

	const producers, perProducer = 8, 200
	mp := New(nil)

	var (
		wg       sync.WaitGroup
		queuedMu sync.Mutex
		queued   = make(map[string]struct{})
		done     = make(chan struct{})
		selected = make(chan []wire.Transaction, 1024)
	)

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				tx, err := mp.Queue("payload")
				if err != nil {
					t.Errorf("queue: %v", err)
					return
				}
				queuedMu.Lock()
				queued[tx.ID] = struct{}{}
				queuedMu.Unlock()
			}
		}()
	}

	var selectors sync.WaitGroup
	for i := 0; i < 4; i++ {
		selectors.Add(1)
		go func() {
			defer selectors.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if txns := mp.SelectTransactions(5); len(txns) > 0 {
					selected <- txns
				}
			}
		}()
	}

	wg.Wait()
	close(done)
	selectors.Wait()
	close(selected)

	seen := make(map[string]struct{})
	for txns := range selected {
		require.LessOrEqual(t, len(txns), 5)
		for _, tx := range txns {
			_, dup := seen[tx.ID]
			require.False(t, dup, "transaction %s selected twice", tx.ID)
			seen[tx.ID] = struct{}{}
		}
	}
	for _, tx := range mp.SelectTransactions(producers * perProducer) {
		_, dup := seen[tx.ID]
		require.False(t, dup, "transaction %s selected twice", tx.ID)
		seen[tx.ID] = struct{}{}
	}

	require.Len(t, queued, producers*perProducer)
	require.Equal(t, len(queued), len(seen))
	for id := range queued {
		_, ok := seen[id]
		require.True(t, ok, "transaction %s lost", id)
	}
}
