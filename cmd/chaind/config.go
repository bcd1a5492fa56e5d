// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/chaind/chaind/blockhash"
	"github.com/chaind/chaind/chaincfg"
	"github.com/chaind/chaind/internal/log"
	"github.com/chaind/chaind/internal/version"
	"github.com/chaind/chaind/rpcserver"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "chaind.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "chaind.log"
	defaultListenHost     = "127.0.0.1"
	defaultListenPort     = "8080"
	defaultMaxPoolSize    = 0
)

var (
	defaultHomeDir    = btcutil.AppDataDir("chaind", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for chaind.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion     bool     `short:"V" long:"version" description:"Display version information and exit"`
	HomeDir         string   `short:"A" long:"appdata" description:"Path to application home directory"`
	ConfigFile      string   `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir          string   `long:"logdir" description:"Directory to log output"`
	DebugLevel      string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Listeners       []string `long:"listen" description:"Add an interface/port to listen for HTTP connections (default port: 8080)"`
	SimNet          bool     `long:"simnet" description:"Use the simulation network with a low default difficulty"`
	Workers         int      `long:"workers" description:"Number of mining workers -- 0 uses one worker per processor core"`
	Difficulty      int      `long:"difficulty" description:"Number of leading zero hex characters required in block hashes -- 0 uses the network default"`
	Digest          string   `long:"digest" description:"Digest used to hash blocks {sha256, sha3-256, blake2b-256}"`
	MaxTrials       int64    `long:"maxtrials" description:"Give up a mining round after this many proofs -- 0 searches until a proof is found"`
	MaxPoolSize     int      `long:"maxpoolsize" description:"Maximum number of pending transactions -- 0 means unbounded"`
	MaxPayload      int64    `long:"maxpayload" description:"Maximum size in bytes of a transaction payload"`
	NoMetrics       bool     `long:"nometrics" description:"Disable the Prometheus /metrics endpoint"`
	DetectDeadlocks bool     `long:"detectdeadlocks" description:"Report potential deadlocks and lock order violations"`
	Profile         string   `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`

	chainParams *chaincfg.Params
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// normalizeAddress returns addr with the default listen port appended if
// there is not already a port specified.
func normalizeAddress(addr string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultListenPort)
	}
	return addr
}

// normalizeAddresses returns a new slice with all the passed addresses
// normalized and duplicates removed.
func normalizeAddresses(addrs []string) []string {
	result := make([]string, 0, len(addrs))
	seen := map[string]struct{}{}
	for _, addr := range addrs {
		addr = normalizeAddress(addr)
		if _, ok := seen[addr]; !ok {
			result = append(result, addr)
			seen[addr] = struct{}{}
		}
	}
	return result
}

// configError prints err followed by the usage message and returns it.
func configError(parser *flags.Parser, err error) error {
	fmt.Fprintln(os.Stderr, err)
	parser.WriteHelp(os.Stderr)
	return err
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in chaind functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.  A missing configuration file is not an error.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		HomeDir:     defaultHomeDir,
		ConfigFile:  defaultConfigFile,
		LogDir:      defaultLogDir,
		DebugLevel:  defaultLogLevel,
		Digest:      blockhash.DigestSHA256,
		MaxPoolSize: defaultMaxPoolSize,
		MaxPayload:  rpcserver.DefaultMaxPayloadBytes,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil, nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if preCfg.ShowVersion {
		fmt.Println(version.Full(appName))
		os.Exit(0)
	}

	// Update the home directory if specified.  Since the home directory
	// is updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != defaultHomeDir {
		cfg.HomeDir = cleanAndExpandPath(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			preCfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(cleanAndExpandPath(preCfg.ConfigFile))
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, nil, configError(parser, err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	if err := log.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("loadConfig: %v", err)
		return nil, nil, configError(parser, err)
	}

	// Choose the active network params based on the simnet flag.
	cfg.chainParams = &chaincfg.MainNetParams
	if cfg.SimNet {
		cfg.chainParams = &chaincfg.SimNetParams
	}

	// Validate the mining options.
	if cfg.Difficulty < 0 || cfg.Difficulty > chaincfg.MaxDifficulty {
		str := "loadConfig: the difficulty option must be between 0 " +
			"and %d -- parsed [%d]"
		err := fmt.Errorf(str, chaincfg.MaxDifficulty, cfg.Difficulty)
		return nil, nil, configError(parser, err)
	}
	if cfg.Workers < 0 {
		str := "loadConfig: the workers option may not be negative " +
			"-- parsed [%d]"
		err := fmt.Errorf(str, cfg.Workers)
		return nil, nil, configError(parser, err)
	}
	if cfg.MaxTrials < 0 {
		str := "loadConfig: the maxtrials option may not be negative " +
			"-- parsed [%d]"
		err := fmt.Errorf(str, cfg.MaxTrials)
		return nil, nil, configError(parser, err)
	}
	if _, err := blockhash.New(&blockhash.Config{Digest: cfg.Digest}); err != nil {
		err := fmt.Errorf("loadConfig: %w", err)
		return nil, nil, configError(parser, err)
	}

	// Validate the pool and transport limits.
	if cfg.MaxPoolSize < 0 {
		str := "loadConfig: the maxpoolsize option may not be " +
			"negative -- parsed [%d]"
		err := fmt.Errorf(str, cfg.MaxPoolSize)
		return nil, nil, configError(parser, err)
	}
	if cfg.MaxPayload <= 0 {
		str := "loadConfig: the maxpayload option must be positive " +
			"-- parsed [%d]"
		err := fmt.Errorf(str, cfg.MaxPayload)
		return nil, nil, configError(parser, err)
	}

	// Validate profile port number.
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			str := "loadConfig: the profile port must be between " +
				"1024 and 65535"
			err := errors.New(str)
			return nil, nil, configError(parser, err)
		}
	}

	// Default to listening on localhost only.
	if len(cfg.Listeners) == 0 {
		cfg.Listeners = []string{
			net.JoinHostPort(defaultListenHost, defaultListenPort),
		}
	}
	cfg.Listeners = normalizeAddresses(cfg.Listeners)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	return &cfg, remainingArgs, nil
}

// difficulty returns the difficulty used for mining and block acceptance.
func (cfg *config) difficulty() int {
	if cfg.Difficulty > 0 {
		return cfg.Difficulty
	}
	return cfg.chainParams.Difficulty
}
