// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaind/chaind/internal/version"
	flags "github.com/jessevdk/go-flags"
	"github.com/pterm/pterm"
)

// newParser returns the command line parser with all commands registered.
func newParser(appName string) *flags.Parser {
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.SubcommandsOptional = true
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("status", "Show the node status", "", &statusCfg)
	parser.AddCommand("mine",
		"Mine a block and wait for it",
		"Mine a block from the oldest pending transactions.  Concurrent "+
			"requests share the same block.", &mineCfg)
	parser.AddCommand("queue",
		"Queue a transaction",
		"Queue a transaction carrying the passed payload.  Use - to "+
			"read the payload from standard input.", &queueCfg)
	parser.AddCommand("pending", "List the pending transactions", "",
		&pendingCfg)
	parser.AddCommand("blocks", "List all blocks of the chain", "",
		&blocksCfg)
	parser.AddCommand("block", "Show the block with the passed index", "",
		&blockCfg)
	parser.AddCommand("watch", "Stream chain events until interrupted", "",
		&watchCfg)
	return parser
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parser := newParser(appName)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			pterm.Error.Println(err)
		}

		return err
	}

	if cfg.ShowVersion {
		fmt.Println(version.Full(appName))
		return nil
	}

	// No command was given.
	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		return errors.New("no command specified")
	}

	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
