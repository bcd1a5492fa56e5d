// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chaind/chaind/blockhash"
)

const (
	defaultServer = "127.0.0.1:8080"
)

var (
	// Default global config.
	cfg = &config{
		Server: defaultServer,
		Digest: blockhash.DigestSHA256,
	}
)

// config defines the global configuration options.
type config struct {
	ShowVersion bool          `short:"V" long:"version" description:"Display version information and exit"`
	Server      string        `short:"s" long:"server" description:"chaind server to connect to"`
	Timeout     time.Duration `long:"timeout" description:"Give up requests after this long -- 0 waits for ever"`
	Digest      string        `long:"digest" description:"Digest the server hashes blocks with {sha256, sha3-256, blake2b-256}"`
	JSON        bool          `long:"json" description:"Print results as JSON instead of tables"`
}

// normalizeServer returns the base URL of the passed server address which may
// be given with or without a scheme.
func normalizeServer(server string) (*url.URL, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server %q has no host", server)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// setupGlobalConfig examines the global configuration options for any
// conditions which are invalid and returns a client and block hasher for
// them.
func setupGlobalConfig() (*client, *blockhash.Hasher, error) {
	baseURL, err := normalizeServer(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid server: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, nil, fmt.Errorf("the timeout may not be negative "+
			"-- parsed [%v]", cfg.Timeout)
	}

	hasher, err := blockhash.New(&blockhash.Config{Digest: cfg.Digest})
	if err != nil {
		return nil, nil, err
	}

	return newClient(baseURL, cfg.Timeout), hasher, nil
}
