// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chaind/chaind/blockchain"
	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/chaincfg"
	"github.com/chaind/chaind/mempool"
	"github.com/chaind/chaind/mining/cpuminer"
	"github.com/chaind/chaind/rpcserver"
	"github.com/chaind/chaind/wire"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"
)

func init() {
	pterm.DisableColor()
}

// newTestServer returns a client and hasher connected to a node mining at
// difficulty 1.
func newTestServer(t *testing.T) (*client, *blockhash.Hasher, *blockchain.BlockChain) {
	t.Helper()

	params := chaincfg.SimNetParams
	params.Difficulty = 1
	hasher, err := blockhash.New(nil)
	require.NoError(t, err)
	chain, err := blockchain.New(&blockchain.Config{
		ChainParams: &params,
		Hasher:      hasher,
		TxPool:      mempool.New(nil),
		Miner: cpuminer.New(&cpuminer.Config{
			Hasher:     hasher,
			Difficulty: 1,
			NumWorkers: 2,
		}),
	})
	require.NoError(t, err)
	server, err := rpcserver.New(&rpcserver.Config{Chain: chain})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		ts.Close()
		chain.Stop()
	})

	baseURL, err := normalizeServer(ts.URL)
	require.NoError(t, err)
	return newClient(baseURL, 30*time.Second), hasher, chain
}

func TestNormalizeServer(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "127.0.0.1:8080", want: "http://127.0.0.1:8080"},
		{in: "http://node.example:9000/", want: "http://node.example:9000"},
		{in: "https://node.example/chain/", want: "https://node.example/chain"},
		{in: "ftp://node.example", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, test := range tests {
		u, err := normalizeServer(test.in)
		if test.wantErr {
			require.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, u.String())
	}
}

func TestParserCommands(t *testing.T) {
	parser := newParser("chainctl")
	for _, name := range []string{"status", "mine", "queue", "pending",
		"blocks", "block", "watch"} {

		require.NotNil(t, parser.Find(name), name)
	}
}

func TestCommands(t *testing.T) {
	c, hasher, chain := newTestServer(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, runStatus(ctx, c, hasher, &out))
	require.Contains(t, out.String(), chain.Status().NodeID)

	out.Reset()
	require.NoError(t, runQueue(ctx, c, "pay alice", &out))
	require.Contains(t, out.String(), "Queued transaction /transactions/")

	out.Reset()
	require.NoError(t, runPending(ctx, c, hasher, &out))
	require.Contains(t, out.String(), "pay alice")

	out.Reset()
	require.NoError(t, runMine(ctx, c, hasher, &out))
	require.Contains(t, out.String(), "Mined block 2")
	require.Contains(t, out.String(), "pay alice")

	out.Reset()
	require.NoError(t, runPending(ctx, c, hasher, &out))
	require.Contains(t, out.String(), "No pending transactions")

	tip := chain.Tip()
	out.Reset()
	require.NoError(t, runBlocks(ctx, c, hasher, &out))
	require.Contains(t, out.String(), chaincfg.SimNetParams.GenesisHash)
	require.Contains(t, out.String(), hasher.Hash(&tip))

	out.Reset()
	require.NoError(t, runBlock(ctx, c, hasher, 2, &out))
	require.Contains(t, out.String(), hasher.Hash(&tip))

	err := runBlock(ctx, c, hasher, 7, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "block not found")
}

func TestCommandsJSON(t *testing.T) {
	cfg.JSON = true
	defer func() { cfg.JSON = false }()

	c, hasher, chain := newTestServer(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, runBlocks(ctx, c, hasher, &out))
	var blocks rpcserver.BlocksResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &blocks))
	require.Equal(t, chain.Blocks(), blocks.Blocks)
	require.Equal(t, 1, blocks.BlockHeight)

	out.Reset()
	require.NoError(t, runQueue(ctx, c, "json", &out))
	var tx wire.Transaction
	require.NoError(t, json.Unmarshal(out.Bytes(), &tx))
	require.Equal(t, "json", tx.Payload)
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	c, hasher, chain := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, c, hasher, &out)
	}()

	// Queue transactions until the watcher is connected and reports one.
	require.Eventually(t, func() bool {
		if _, err := chain.Queue("watched"); err != nil {
			return false
		}
		return strings.Contains(out.String(), `new transaction`)
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
	require.Contains(t, out.String(), `"watched"`)
}
