// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/chaind/chaind/blockchain"
	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/internal/limits"
	"github.com/chaind/chaind/internal/log"
	"github.com/chaind/chaind/internal/version"
	"github.com/chaind/chaind/mempool"
	"github.com/chaind/chaind/metrics"
	"github.com/chaind/chaind/mining/cpuminer"
	"github.com/chaind/chaind/rpcserver"
	"github.com/sasha-s/go-deadlock"
)

var (
	cfg     *config
	chndLog = log.ChndLog
)

// chaindMain is the real main function for chaind.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func chaindMain() error {
	// Load configuration and parse command line.  This function also
	// sets the requested log levels.
	tcfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg = tcfg

	// Initialize the log file rotation and ensure all outstanding
	// messages are written on shutdown.
	err = log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.CloseLogRotator()

	// Get a channel that will be closed when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	interrupt := interruptListener()
	defer chndLog.Info("Shutdown complete")

	// Show version at startup.
	chndLog.Infof("Version %s", version.String())
	chndLog.Debugf("Home dir: %s", cfg.HomeDir)

	// Lock order checking is off unless requested.
	deadlock.Opts.Disable = !cfg.DetectDeadlocks

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		go func() {
			listenAddr := net.JoinHostPort("", cfg.Profile)
			chndLog.Infof("Profile server listening on %s", listenAddr)
			profileRedirect := http.RedirectHandler("/debug/pprof",
				http.StatusSeeOther)
			http.Handle("/", profileRedirect)
			chndLog.Errorf("%v", http.ListenAndServe(listenAddr, nil))
		}()
	}

	// Return now if an interrupt signal was triggered.
	if interruptRequested(interrupt) {
		return nil
	}

	node, err := newNode(cfg)
	if err != nil {
		chndLog.Errorf("Unable to start node: %v", err)
		return err
	}
	defer func() {
		chndLog.Infof("Gracefully shutting down the node...")
		node.Stop()
	}()
	node.Start()

	// Wait until the interrupt signal is received from an OS signal.
	<-interrupt
	return nil
}

// node bundles the running subsystems of chaind.
type node struct {
	chain  *blockchain.BlockChain
	server *rpcserver.Server
}

// newNode wires the chain subsystems together as configured.
func newNode(cfg *config) (*node, error) {
	var (
		hashObserver  blockhash.Observer
		chainObserver blockchain.Observer
		m             *metrics.Metrics
	)
	if !cfg.NoMetrics {
		var err error
		m, err = metrics.New(&metrics.Config{
			Application: metrics.DefaultApplication,
		})
		if err != nil {
			return nil, err
		}
		hashObserver = m
		chainObserver = m
	}

	hasher, err := blockhash.New(&blockhash.Config{
		Digest:   cfg.Digest,
		Observer: hashObserver,
	})
	if err != nil {
		return nil, err
	}

	params := *cfg.chainParams
	params.Difficulty = cfg.difficulty()

	txPool := mempool.New(&mempool.Config{MaxSize: cfg.MaxPoolSize})
	miner := cpuminer.New(&cpuminer.Config{
		Hasher:     hasher,
		Difficulty: params.Difficulty,
		NumWorkers: cfg.Workers,
		MaxTrials:  cfg.MaxTrials,
	})
	chain, err := blockchain.New(&blockchain.Config{
		ChainParams: &params,
		Hasher:      hasher,
		TxPool:      txPool,
		Miner:       miner,
		Observer:    chainObserver,
	})
	if err != nil {
		return nil, err
	}
	chndLog.Infof("Mining with %d workers using %s at difficulty %d",
		miner.NumWorkers(), hasher.Algorithm(), miner.Difficulty())

	var metricsHandler http.Handler
	if m != nil {
		if err := m.TrackPendingTransactions(txPool.Count); err != nil {
			chain.Stop()
			return nil, err
		}
		metricsHandler = m.Handler()
	}

	listeners := make([]net.Listener, 0, len(cfg.Listeners))
	for _, addr := range cfg.Listeners {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			chain.Stop()
			return nil, fmt.Errorf("unable to listen on %s: %w", addr, err)
		}
		listeners = append(listeners, listener)
	}

	server, err := rpcserver.New(&rpcserver.Config{
		Listeners:       listeners,
		Chain:           chain,
		MaxPayloadBytes: cfg.MaxPayload,
		MetricsHandler:  metricsHandler,
	})
	if err != nil {
		for _, l := range listeners {
			l.Close()
		}
		chain.Stop()
		return nil, err
	}

	return &node{chain: chain, server: server}, nil
}

// Start begins serving requests.
func (n *node) Start() {
	n.server.Start()
}

// Stop stops the server before the chain so no request can start a new
// mining round during shutdown.
func (n *node) Stop() {
	if err := n.server.Stop(); err != nil {
		chndLog.Errorf("Unable to stop RPC server: %v", err)
	}
	n.chain.Stop()
}

func main() {
	// Up some limits.
	if _, err := limits.SetLimits(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set limits: %v\n", err)
		os.Exit(1)
	}

	// Work around defer not working after os.Exit()
	if err := chaindMain(); err != nil {
		os.Exit(1)
	}
}
