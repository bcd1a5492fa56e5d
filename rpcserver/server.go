// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpcserver implements the HTTP interface of a chain node: node
// status, mining, queueing transactions, listing blocks and a websocket
// stream of chain events.
package rpcserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaind/chaind/blockchain"
	"github.com/chaind/chaind/wire"
	"github.com/gorilla/websocket"
)

const (
	// DefaultMaxPayloadBytes is the default limit for the body of a queued
	// transaction.
	DefaultMaxPayloadBytes = 64 * 1024

	// shutdownTimeout is the time in-flight requests are given to finish
	// when the server is stopped.
	shutdownTimeout = 5 * time.Second
)

// Config is a descriptor containing the RPC server configuration.
type Config struct {
	// Listeners defines a slice of listeners for which the RPC server will
	// take ownership of and accept connections.  Since the RPC server takes
	// ownership of these listeners, they will be closed when the RPC server
	// is stopped.
	Listeners []net.Listener

	// Chain is the chain served by the server.
	//
	// This field is required.
	Chain *blockchain.BlockChain

	// MaxPayloadBytes limits the size of a transaction payload.  It
	// defaults to DefaultMaxPayloadBytes.
	MaxPayloadBytes int64

	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// Server provides the HTTP interface to a chain.
type Server struct {
	started  int32
	shutdown int32

	cfg        Config
	handler    http.Handler
	httpServer *http.Server
	upgrader   websocket.Upgrader
	ntfnMgr    *wsNotificationManager
	wg         sync.WaitGroup
	quit       chan struct{}
}

// New returns a new instance of the Server struct.  The server subscribes to
// the chain notifications right away so no event is missed by websocket
// clients.
func New(config *Config) (*Server, error) {
	if config.Chain == nil {
		return nil, errors.New("rpcserver.New chain is nil")
	}

	cfg := *config
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = DefaultMaxPayloadBytes
	}

	s := Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		quit: make(chan struct{}),
	}
	s.ntfnMgr = newWsNotificationManager()
	s.handler = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	cfg.Chain.Subscribe(s.handleBlockchainNotification)

	return &s, nil
}

// routes registers the request handlers of the server.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleStatus)
	mux.HandleFunc("GET /mine", s.handleMine)
	mux.HandleFunc("POST /transactions", s.handleQueue)
	mux.HandleFunc("GET /transactions", s.handlePending)
	mux.HandleFunc("GET /blocks", s.handleBlocks)
	mux.HandleFunc("GET /blocks/{index}", s.handleBlock)
	mux.HandleFunc("GET /events", s.handleEvents)
	if s.cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.cfg.MetricsHandler)
	}
	return mux
}

// Handler returns the http.Handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start is used by chaind to start the RPC server listening on the
// configured listeners.
func (s *Server) Start() {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	log.Trace("Starting RPC server")
	for _, listener := range s.cfg.Listeners {
		s.wg.Add(1)
		go func(listener net.Listener) {
			log.Infof("RPC server listening on %s", listener.Addr())
			err := s.httpServer.Serve(listener)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("RPC listener %s failed: %v",
					listener.Addr(), err)
			}
			log.Tracef("RPC listener done for %s", listener.Addr())
			s.wg.Done()
		}(listener)
	}
}

// Stop is used by chaind to stop the RPC server.  Websocket clients are
// disconnected and in-flight requests are given a short grace period.
func (s *Server) Stop() error {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Infof("RPC server is already in the process of shutting down")
		return nil
	}
	log.Warnf("RPC server shutting down")
	close(s.quit)
	s.ntfnMgr.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Errorf("Problem shutting down rpc: %v", err)
		s.httpServer.Close()
	}

	// Listeners that were never served are still owned by the server.
	if atomic.LoadInt32(&s.started) == 0 {
		for _, listener := range s.cfg.Listeners {
			listener.Close()
		}
	}

	s.wg.Wait()
	log.Infof("RPC server shutdown complete")
	return err
}

// handleBlockchainNotification forwards chain events to the websocket
// clients.
func (s *Server) handleBlockchainNotification(notification *blockchain.Notification) {
	switch notification.Type {
	case blockchain.NTBlockConnected:
		block, ok := notification.Data.(*wire.Block)
		if !ok {
			log.Warnf("Chain connected notification is not a block.")
			break
		}
		s.ntfnMgr.NotifyBlockConnected(block)

	case blockchain.NTTransactionAccepted:
		tx, ok := notification.Data.(*wire.Transaction)
		if !ok {
			log.Warnf("Transaction accepted notification is not a " +
				"transaction.")
			break
		}
		s.ntfnMgr.NotifyNewTransaction(tx)
	}
}
