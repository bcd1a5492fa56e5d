// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPriorityQueue ensures items are popped in priority order.
func TestPriorityQueue(t *testing.T) {
	t.Parallel()

	pq := NewPriorityQueue(func(a, b int) bool { return a < b }, 0)
	_, ok := pq.Pop()
	require.False(t, ok)
	_, ok = pq.Peek()
	require.False(t, ok)

	for _, v := range []int{5, 1, 4, 2, 3} {
		pq.Push(v)
	}
	require.Equal(t, 5, pq.Len())
	require.Equal(t, []int{1, 2, 3, 4, 5}, pq.Sorted())
	require.Equal(t, 5, pq.Len())

	top, ok := pq.Peek()
	require.True(t, ok)
	require.Equal(t, 1, top)

	for want := 1; want <= 5; want++ {
		got, ok := pq.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.Zero(t, pq.Len())
}
