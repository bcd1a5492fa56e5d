// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build unix

package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	// fileLimitWant is the number of open files wanted so every listener
	// and websocket client of a busy node has a descriptor.
	fileLimitWant = 4096

	// fileLimitMin is the minimum number of open files chaind runs with.
	fileLimitMin = 256
)

// SetLimits raises the soft limit of open file descriptors towards
// fileLimitWant and returns the limit in effect afterwards.  It fails when not
// even fileLimitMin descriptors are available.
func SetLimits() (uint64, error) {
	var rLimit unix.Rlimit
	err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return 0, err
	}
	if rLimit.Cur >= fileLimitWant {
		return uint64(rLimit.Cur), nil
	}
	if rLimit.Max < fileLimitMin {
		return uint64(rLimit.Cur), fmt.Errorf("need at least %v file "+
			"descriptors, hard limit is %v", fileLimitMin, rLimit.Max)
	}

	want := rLimit
	want.Cur = fileLimitWant
	if rLimit.Max < fileLimitWant {
		want.Cur = rLimit.Max
	}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &want); err != nil {
		// Fall back to the minimum.
		want.Cur = fileLimitMin
		if rLimit.Cur >= fileLimitMin {
			return uint64(rLimit.Cur), nil
		}
		if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &want); err != nil {
			return uint64(rLimit.Cur), err
		}
	}

	return uint64(want.Cur), nil
}
