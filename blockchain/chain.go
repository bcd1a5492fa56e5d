// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/chaincfg"
	"github.com/chaind/chaind/mempool"
	"github.com/chaind/chaind/wire"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Miner searches for a proof which seals a block template.
type Miner interface {
	Search(ctx context.Context, template *wire.Block) (*wire.Block, error)
}

// Observer is notified about every block appended to the chain.
// Implementations must not block.
type Observer interface {
	BlockConnected(block *wire.Block)
}

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// ChainParams identifies which chain parameters the chain is
	// associated with.
	//
	// This field is required.
	ChainParams *chaincfg.Params

	// Hasher is the hash pipeline linking blocks together and gating
	// their acceptance.
	//
	// This field is required.
	Hasher *blockhash.Hasher

	// TxPool is the source of transactions for new blocks.
	//
	// This field is required.
	TxPool *mempool.TxPool

	// Miner seals block templates.
	//
	// This field is required.
	Miner Miner

	// Observer is an optional sink notified about appended blocks.
	Observer Observer

	// Now returns the current time.  It defaults to time.Now.
	Now func() time.Time
}

// Status describes the node owning the chain.
type Status struct {
	NodeID             string
	CurrentBlockHeight int
}

// BlockChain provides functions for queueing transactions and mining them
// into an append-only chain of proof-of-work sealed blocks.
//
// Mining requests are deduplicated: while a mining round is in flight every
// further request attaches to it and observes the same block, so concurrent
// requests can neither fork the chain nor start duplicate searches.
type BlockChain struct {
	params   *chaincfg.Params
	hasher   *blockhash.Hasher
	txPool   *mempool.TxPool
	miner    Miner
	observer Observer
	now      func() time.Time
	nodeID   string

	// chainLock protects the blocks.  Blocks are only ever appended by
	// the goroutine of the single in-flight mining round.
	chainLock deadlock.RWMutex
	blocks    []wire.Block

	// roundLock protects pendingRound and makes checking for an in-flight
	// round and registering a new one a single atomic step.
	roundLock    deadlock.Mutex
	pendingRound *Round

	// The notifications field stores a slice of callbacks to be executed
	// on certain blockchain events.
	notificationsLock sync.RWMutex
	notifications     []NotificationCallback

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a BlockChain instance using the provided configuration
// details.  The genesis block is obtained from the chain parameters exactly
// once.
func New(config *Config) (*BlockChain, error) {
	// Enforce required config fields.
	if config.ChainParams == nil {
		return nil, AssertError("blockchain.New chain parameters nil")
	}
	if config.Hasher == nil {
		return nil, AssertError("blockchain.New hasher is nil")
	}
	if config.TxPool == nil {
		return nil, AssertError("blockchain.New transaction pool is nil")
	}
	if config.Miner == nil {
		return nil, AssertError("blockchain.New miner is nil")
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	params := config.ChainParams
	genesis := params.GenesisBlock()
	ctx, cancel := context.WithCancel(context.Background())
	b := BlockChain{
		params:   params,
		hasher:   config.Hasher,
		txPool:   config.TxPool,
		miner:    config.Miner,
		observer: config.Observer,
		now:      now,
		nodeID:   uuid.NewString(),
		blocks:   []wire.Block{genesis},
		ctx:      ctx,
		cancel:   cancel,
	}

	log.Infof("Chain %s initialized with genesis block %s (difficulty %d)",
		params.Name, b.hasher.Hash(&genesis), params.Difficulty)

	return &b, nil
}

// Queue adds a new transaction carrying payload to the pending transaction
// pool and returns it.
//
// This function is safe for concurrent access.
func (b *BlockChain) Queue(payload string) (*wire.Transaction, error) {
	tx, err := b.txPool.Queue(payload)
	if err != nil {
		return nil, err
	}

	b.sendNotification(NTTransactionAccepted, tx)
	return tx, nil
}

// Mine requests a new block and returns the mining round which will produce
// it.  It never waits for the search itself.
//
// When a round is already in flight the very same round is returned, so
// every caller attached to it observes the identical block.  Once a round is
// resolved it is retired and the next call starts a new round against the
// then current tip.  Calls made during an in-flight round for block N never
// queue a round for block N+1 behind it.
//
// This function is safe for concurrent access.
func (b *BlockChain) Mine() *Round {
	b.roundLock.Lock()
	defer b.roundLock.Unlock()

	if b.pendingRound != nil {
		log.Debugf("Attaching to in-flight mining round (%v)",
			b.pendingRound.State())
		return b.pendingRound
	}

	round := newRound()
	if b.ctx.Err() != nil {
		round.resolve(nil, ErrChainStopped)
		return round
	}

	b.pendingRound = round
	b.wg.Add(1)
	go b.mineRound(round)

	return round
}

// mineRound builds a block template on top of the current tip, searches a
// proof for it, and appends the sealed block.  It must be run as a
// goroutine.
func (b *BlockChain) mineRound(round *Round) {
	defer b.wg.Done()

	tip := b.Tip()
	template := b.newBlockTemplate(&tip)
	round.setState(RoundTemplateBuilt)
	log.Debugf("Created template for block %d with %d transactions",
		template.Index, len(template.Transactions))

	round.setState(RoundSearching)
	block, err := b.miner.Search(b.ctx, &template)
	if err != nil {
		if b.ctx.Err() != nil && errors.Is(err, context.Canceled) {
			err = ErrChainStopped
		}
		log.Warnf("Mining round for block %d failed: %v (%d selected "+
			"transactions dropped)", template.Index, err,
			len(template.Transactions))
		b.finishRound(round, nil, err)
		return
	}
	round.setState(RoundFound)

	if err := b.connectBlock(block); err != nil {
		log.Errorf("Unable to connect mined block %d: %v", block.Index, err)
		b.finishRound(round, nil, err)
		return
	}
	round.setState(RoundAppended)

	b.sendNotification(NTBlockConnected, block)
	b.finishRound(round, block, nil)
}

// finishRound retires the passed round from the in-flight slot and resolves
// it.  Both happen under the round lock so a concurrent Mine either attaches
// to the round before it is resolved or starts a new one after it.
func (b *BlockChain) finishRound(round *Round, block *wire.Block, err error) {
	b.roundLock.Lock()
	if b.pendingRound == round {
		b.pendingRound = nil
	}
	round.resolve(block, err)
	b.roundLock.Unlock()
}

// newBlockTemplate returns an unsealed block extending tip which carries the
// oldest pending transactions.  The selected transactions are removed from
// the pool for good.
func (b *BlockChain) newBlockTemplate(tip *wire.Block) wire.Block {
	txns := b.txPool.SelectTransactions(b.params.MaxBlockTransactions)
	return wire.NewBlockTemplate(tip.Index+1, b.now().UnixMilli(), txns,
		b.hasher.Hash(tip))
}

// connectBlock validates the passed block against the current tip and
// appends it.
func (b *BlockChain) connectBlock(block *wire.Block) error {
	b.chainLock.Lock()
	tip := &b.blocks[len(b.blocks)-1]
	if err := b.checkConnectBlock(block, tip); err != nil {
		b.chainLock.Unlock()
		return err
	}
	b.blocks = append(b.blocks, *block)
	height := len(b.blocks)
	b.chainLock.Unlock()

	if b.observer != nil {
		b.observer.BlockConnected(block)
	}
	log.Infof("Connected block %d with %d transactions (proof %d, chain "+
		"height %d)", block.Index, len(block.Transactions), block.Proof,
		height)

	return nil
}

// checkConnectBlock ensures the passed block is sealed, directly follows tip
// and references its hash.  The block must also respect the transaction limit
// and have a hash satisfying the difficulty.
//
// This function MUST be called with the chain lock held.
func (b *BlockChain) checkConnectBlock(block, tip *wire.Block) error {
	if !block.IsSealed() {
		str := fmt.Sprintf("block %d is not sealed", block.Index)
		return ruleError(ErrUnsealedBlock, str)
	}

	if block.Index != tip.Index+1 {
		str := fmt.Sprintf("block index %d does not follow tip index %d",
			block.Index, tip.Index)
		return ruleError(ErrBadIndex, str)
	}

	if tipHash := b.hasher.Hash(tip); block.PreviousBlockHash != tipHash {
		str := fmt.Sprintf("block %d references previous block %s "+
			"instead of tip %s", block.Index,
			block.PreviousBlockHash, tipHash)
		return ruleError(ErrBadPrevHash, str)
	}

	if len(block.Transactions) > b.params.MaxBlockTransactions {
		str := fmt.Sprintf("block %d carries %d transactions, max %d",
			block.Index, len(block.Transactions),
			b.params.MaxBlockTransactions)
		return ruleError(ErrTooManyTransactions, str)
	}

	hash, ok := b.hasher.Check(block, b.params.Difficulty)
	if !ok {
		str := fmt.Sprintf("block %d hash %s has fewer than %d leading "+
			"zeros", block.Index, hash, b.params.Difficulty)
		return ruleError(ErrHighHash, str)
	}

	return nil
}

// Blocks returns a snapshot of the whole chain starting with the genesis
// block.  Appends made after the call are not reflected.
//
// This function is safe for concurrent access.
func (b *BlockChain) Blocks() []wire.Block {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	blocks := make([]wire.Block, len(b.blocks))
	for i := range b.blocks {
		blocks[i] = b.blocks[i].Copy()
	}
	return blocks
}

// BlockByIndex returns the block with the passed index and whether it
// exists.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockByIndex(index int64) (wire.Block, bool) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	pos := index - b.blocks[0].Index
	if pos < 0 || pos >= int64(len(b.blocks)) {
		return wire.Block{}, false
	}
	return b.blocks[pos].Copy(), true
}

// Tip returns the most recently appended block.
//
// This function is safe for concurrent access.
func (b *BlockChain) Tip() wire.Block {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return b.blocks[len(b.blocks)-1].Copy()
}

// Length returns the number of blocks in the chain including the genesis
// block.
//
// This function is safe for concurrent access.
func (b *BlockChain) Length() int {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return len(b.blocks)
}

// PendingTransactions returns a snapshot of the pending transactions in the
// order they will be mined.
//
// This function is safe for concurrent access.
func (b *BlockChain) PendingTransactions() []wire.Transaction {
	return b.txPool.Pending()
}

// Status returns the identifier of this node and the current chain height.
//
// This function is safe for concurrent access.
func (b *BlockChain) Status() Status {
	return Status{
		NodeID:             b.nodeID,
		CurrentBlockHeight: b.Length(),
	}
}

// Hash returns the hash of the passed block using the hash pipeline of the
// chain.
func (b *BlockChain) Hash(block *wire.Block) string {
	return b.hasher.Hash(block)
}

// Params returns the chain parameters.
func (b *BlockChain) Params() *chaincfg.Params {
	return b.params
}

// Stop interrupts the in-flight mining round, if any, and waits for it to
// finish.  Rounds requested afterwards fail with ErrChainStopped.
//
// This function is safe for concurrent access.
func (b *BlockChain) Stop() {
	b.roundLock.Lock()
	b.cancel()
	b.roundLock.Unlock()

	b.wg.Wait()
	log.Infof("Chain stopped at height %d", b.Length())
}
