// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chaind/chaind/blockhash"
	"github.com/pterm/pterm"
)

// statusCmd defines the configuration options for the status command.
type statusCmd struct{}

// mineCmd defines the configuration options for the mine command.
type mineCmd struct{}

// queueCmd defines the configuration options for the queue command.
type queueCmd struct{}

// pendingCmd defines the configuration options for the pending command.
type pendingCmd struct{}

// blocksCmd defines the configuration options for the blocks command.
type blocksCmd struct{}

// blockCmd defines the configuration options for the block command.
type blockCmd struct{}

// watchCmd defines the configuration options for the watch command.
type watchCmd struct{}

var (
	statusCfg  = statusCmd{}
	mineCfg    = mineCmd{}
	queueCfg   = queueCmd{}
	pendingCfg = pendingCmd{}
	blocksCfg  = blocksCmd{}
	blockCfg   = blockCmd{}
	watchCfg   = watchCmd{}
)

// runCommand sets up the global config and runs fn with a context which is
// canceled on interrupt.
func runCommand(fn func(ctx context.Context, c *client, hasher *blockhash.Hasher, w io.Writer) error) error {
	c, hasher, err := setupGlobalConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return fn(ctx, c, hasher, os.Stdout)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *statusCmd) Execute(args []string) error {
	return runCommand(runStatus)
}

func runStatus(ctx context.Context, c *client, _ *blockhash.Hasher, w io.Writer) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, status)
	}
	return printStatus(w, status)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *mineCmd) Execute(args []string) error {
	return runCommand(runMine)
}

func runMine(ctx context.Context, c *client, hasher *blockhash.Hasher, w io.Writer) error {
	block, err := c.Mine(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, block)
	}
	fmt.Fprint(w, pterm.Success.Sprintfln("Mined block %d", block.Index))
	return printBlock(w, hasher, block)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *queueCmd) Execute(args []string) error {
	if len(args) < 1 {
		return errors.New("required payload parameter not specified")
	}
	payload := strings.Join(args, " ")

	// A single dash reads the payload from standard input.
	if payload == "-" {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		payload = string(in)
	}

	return runCommand(func(ctx context.Context, c *client, _ *blockhash.Hasher, w io.Writer) error {
		return runQueue(ctx, c, payload, w)
	})
}

func runQueue(ctx context.Context, c *client, payload string, w io.Writer) error {
	tx, location, err := c.Queue(ctx, payload)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, tx)
	}
	fmt.Fprint(w, pterm.Success.Sprintfln("Queued transaction %s", location))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *queueCmd) Usage() string {
	return "<payload | ->"
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *pendingCmd) Execute(args []string) error {
	return runCommand(runPending)
}

func runPending(ctx context.Context, c *client, _ *blockhash.Hasher, w io.Writer) error {
	pending, err := c.Pending(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, pending)
	}
	if pending.Count == 0 {
		fmt.Fprint(w, pterm.Info.Sprintln("No pending transactions"))
		return nil
	}
	return printTransactions(w, pending.Transactions)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *blocksCmd) Execute(args []string) error {
	return runCommand(runBlocks)
}

func runBlocks(ctx context.Context, c *client, hasher *blockhash.Hasher, w io.Writer) error {
	blocks, err := c.Blocks(ctx)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, blocks)
	}
	return printBlocks(w, hasher, blocks.Blocks)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *blockCmd) Execute(args []string) error {
	if len(args) < 1 {
		return errors.New("required block index parameter not specified")
	}
	index, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid block index: %w", err)
	}

	return runCommand(func(ctx context.Context, c *client, hasher *blockhash.Hasher, w io.Writer) error {
		return runBlock(ctx, c, hasher, index, w)
	})
}

func runBlock(ctx context.Context, c *client, hasher *blockhash.Hasher, index int64, w io.Writer) error {
	block, err := c.Block(ctx, index)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return printJSON(w, block)
	}
	return printBlock(w, hasher, block)
}

// Usage overrides the usage display for the command.
func (cmd *blockCmd) Usage() string {
	return "<index>"
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *watchCmd) Execute(args []string) error {
	return runCommand(runWatch)
}

func runWatch(ctx context.Context, c *client, hasher *blockhash.Hasher, w io.Writer) error {
	return c.Watch(ctx, func(e *event) error {
		if cfg.JSON {
			return printJSON(w, e)
		}
		return printEvent(w, hasher, e)
	})
}
