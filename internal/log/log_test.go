// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestSupportedSubsystems(t *testing.T) {
	require.Equal(t, []string{"CHAN", "CHND", "MINR", "RPCS", "TXMP"},
		SupportedSubsystems())
}

func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"global level", "debug", false},
		{"pairs", "CHAN=trace,MINR=warn", false},
		{"invalid level", "verbose", true},
		{"invalid pair", "CHAN=debug,info", true},
		{"unknown subsystem", "PEER=debug", true},
		{"invalid pair level", "CHAN=loud", true},
	}

	for _, test := range tests {
		err := ParseAndSetDebugLevels(test.spec)
		if test.wantErr {
			require.Error(t, err, test.name)
			continue
		}
		require.NoError(t, err, test.name)
	}

	require.NoError(t, ParseAndSetDebugLevels("CHAN=trace,MINR=warn"))
	require.Equal(t, btclog.LevelTrace, chanLog.Level())
	require.Equal(t, btclog.LevelWarn, minrLog.Level())

	SetLogLevels("info")
	for _, subsystem := range SupportedSubsystems() {
		require.Equal(t, btclog.LevelInfo, subsystemLoggers[subsystem].Level())
	}
}

func TestInitLogRotator(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "chaind.log")
	require.NoError(t, InitLogRotator(logFile))
	t.Cleanup(func() {
		CloseLogRotator()
		LogRotator = nil
	})

	ChndLog.Infof("rotator initialized")
	require.NotNil(t, LogRotator)
	require.DirExists(t, filepath.Dir(logFile))
}
