// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build unix

package limits

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSetLimits(t *testing.T) {
	var before unix.Rlimit
	require.NoError(t, unix.Getrlimit(unix.RLIMIT_NOFILE, &before))
	if before.Max < fileLimitMin {
		t.Skipf("hard file limit %d below minimum", before.Max)
	}

	limit, err := SetLimits()
	require.NoError(t, err)
	require.GreaterOrEqual(t, limit, uint64(fileLimitMin))

	var after unix.Rlimit
	require.NoError(t, unix.Getrlimit(unix.RLIMIT_NOFILE, &after))
	require.Equal(t, limit, uint64(after.Cur))
	require.GreaterOrEqual(t, uint64(after.Cur), uint64(before.Cur))
}
