// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !unix

package limits

// SetLimits is a no-op on platforms without resource limits.
func SetLimits() (uint64, error) {
	return 0, nil
}
