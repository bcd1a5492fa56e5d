// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/chaind/chaind/wire"
)

// RoundState describes how far a mining round has progressed.
type RoundState int32

// These constants define the states of a mining round in the order they are
// passed through.  A round ends up in RoundFailed when its search gives up or
// is interrupted by shutdown, or when the found block is rejected.
const (
	RoundRequested RoundState = iota
	RoundTemplateBuilt
	RoundSearching
	RoundFound
	RoundAppended
	RoundFailed
)

// roundStateStrings is a map of round states back to their names for pretty
// printing.
var roundStateStrings = map[RoundState]string{
	RoundRequested:     "requested",
	RoundTemplateBuilt: "template built",
	RoundSearching:     "searching",
	RoundFound:         "found",
	RoundAppended:      "appended",
	RoundFailed:        "failed",
}

// String returns the RoundState in human-readable form.
func (s RoundState) String() string {
	if str, ok := roundStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown RoundState (%d)", int32(s))
}

// Round is the eventual result of one attempt to seal a block template.  It
// is resolved exactly once and every caller attached to it observes the same
// block or error.
type Round struct {
	state atomic.Int32
	done  chan struct{}

	// block and err are only written before done is closed.
	block *wire.Block
	err   error
}

// newRound returns an unresolved round in the requested state.
func newRound() *Round {
	return &Round{done: make(chan struct{})}
}

// Done returns a channel which is closed once the round is resolved.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// State returns the current state of the round.
func (r *Round) State() RoundState {
	return RoundState(r.state.Load())
}

// Wait blocks until the round is resolved or ctx is done.  The returned block
// is shared by every caller of the round and must not be modified.
// Canceling ctx only stops waiting; the round itself keeps running.
func (r *Round) Wait(ctx context.Context) (*wire.Block, error) {
	select {
	case <-r.done:
		return r.block, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of the round without blocking.  The boolean is
// false while the round is unresolved.
func (r *Round) Result() (*wire.Block, bool, error) {
	select {
	case <-r.done:
		return r.block, true, r.err
	default:
		return nil, false, nil
	}
}

// setState advances the round to the passed state.
func (r *Round) setState(state RoundState) {
	r.state.Store(int32(state))
}

// resolve records the outcome of the round and releases all waiters.  It must
// only be called once.
func (r *Round) resolve(block *wire.Block, err error) {
	r.block = block
	r.err = err
	if err != nil {
		r.setState(RoundFailed)
	}
	close(r.done)
}
