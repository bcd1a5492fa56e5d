// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/chaind/chaind/mempool"
)

// writeJSON writes v as the JSON body of a response with the passed status
// code.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}

// writeError writes an ErrorResult response.
func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, &ErrorResult{Error: err.Error()})
}

// handleStatus implements GET /.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.cfg.Chain.Status()
	writeJSON(w, http.StatusOK, &StatusResult{
		NodeID:             status.NodeID,
		CurrentBlockHeight: status.CurrentBlockHeight,
	})
}

// handleMine implements GET /mine.  It requests a block and waits until the
// mining round resolves, the client goes away, or the server is stopped.
// Concurrent requests attach to the same round and receive the same block.
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	log.Debugf("Received mine request from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-s.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	block, err := s.cfg.Chain.Mine().Wait(ctx)
	if err != nil {
		if r.Context().Err() != nil {
			log.Debugf("Mine request from %s canceled", r.RemoteAddr)
			return
		}
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusCreated, block)
}

// handleQueue implements POST /transactions.  The raw request body is the
// payload of the new transaction.
func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxPayloadBytes)
	payload, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := s.cfg.Chain.Queue(string(payload))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, mempool.ErrPoolFull) {
			code = http.StatusServiceUnavailable
		}
		writeError(w, code, err)
		return
	}

	log.Debugf("Queued transaction %s from %s", tx.ID, r.RemoteAddr)
	w.Header().Set("Location", "/transactions/"+tx.ID)
	writeJSON(w, http.StatusCreated, tx)
}

// handlePending implements GET /transactions.
func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	txns := s.cfg.Chain.PendingTransactions()
	writeJSON(w, http.StatusOK, &PendingResult{
		Transactions: txns,
		Count:        len(txns),
	})
}

// handleBlocks implements GET /blocks.
func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	blocks := s.cfg.Chain.Blocks()
	writeJSON(w, http.StatusOK, &BlocksResult{
		Blocks:      blocks,
		BlockHeight: len(blocks),
	})
}

// handleBlock implements GET /blocks/{index}.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(r.PathValue("index"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid block index"))
		return
	}

	block, ok := s.cfg.Chain.BlockByIndex(index)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("block not found"))
		return
	}
	writeJSON(w, http.StatusOK, &block)
}
