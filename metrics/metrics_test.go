// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/wire"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// findMetric returns the single metric of the named family.
func findMetric(t *testing.T, m *Metrics, name string) *dto.Metric {
	t.Helper()

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			require.Len(t, family.GetMetric(), 1)
			return family.GetMetric()[0]
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestHashObserver(t *testing.T) {
	t.Parallel()

	m, err := New(&Config{NoRuntimeMetrics: true})
	require.NoError(t, err)

	hasher, err := blockhash.New(&blockhash.Config{Observer: m})
	require.NoError(t, err)

	block := wire.NewBlockTemplate(2, 0, nil, "0")
	for i := 0; i < 5; i++ {
		hasher.Hash(&block)
	}
	m.ObserveHash(time.Millisecond)

	metric := findMetric(t, m, "chain_hashes_seconds")
	require.Equal(t, uint64(6), metric.GetHistogram().GetSampleCount())
	require.GreaterOrEqual(t, metric.GetHistogram().GetSampleSum(), 0.001)
}

func TestBlocksAndPendingTransactions(t *testing.T) {
	t.Parallel()

	m, err := New(&Config{Application: "test", NoRuntimeMetrics: true})
	require.NoError(t, err)

	pending := 3
	require.NoError(t, m.TrackPendingTransactions(func() int {
		return pending
	}))

	m.BlockConnected(nil)
	m.BlockConnected(nil)

	blocks := findMetric(t, m, "chain_blocks_computed_total")
	require.Equal(t, 2.0, blocks.GetCounter().GetValue())
	require.Equal(t, "application", blocks.GetLabel()[0].GetName())
	require.Equal(t, "test", blocks.GetLabel()[0].GetValue())

	gauge := findMetric(t, m, "chain_transactions_pending")
	require.Equal(t, 3.0, gauge.GetGauge().GetValue())

	pending = 7
	gauge = findMetric(t, m, "chain_transactions_pending")
	require.Equal(t, 7.0, gauge.GetGauge().GetValue())

	// The gauge can only be registered once.
	require.Error(t, m.TrackPendingTransactions(func() int { return 0 }))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m, err := New(nil)
	require.NoError(t, err)
	m.BlockConnected(nil)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body),
		`chain_blocks_computed_total{application="chaind"} 1`), string(body))
	require.Contains(t, string(body), "go_goroutines")
}
