// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version information
// for chaind and chainctl.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// semanticAlphabet defines the allowed characters for the pre-release
	// and build portions of a semantic version string.
	semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
)

// These constants define the application version and follow the semantic
// versioning 2.0.0 spec (http://semver.org/).
const (
	Major uint = 0
	Minor uint = 1
	Patch uint = 0
)

var (
	// PreRelease is defined as a variable so it can be overridden during the
	// build process with:
	// '-ldflags "-X github.com/chaind/chaind/internal/version.PreRelease=foo"'
	// if needed.
	PreRelease = "beta"

	// BuildMetadata is defined as a variable so it can be overridden during
	// the build process in the same way as PreRelease.
	BuildMetadata = ""
)

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (http://semver.org/).
func String() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

	// The pre-release and build strings are stripped of invalid
	// characters and left out entirely when nothing remains.
	if preRelease := normalize(PreRelease, semanticAlphabet); preRelease != "" {
		version = fmt.Sprintf("%s-%s", version, preRelease)
	}
	if build := normalize(BuildMetadata, semanticAlphabet+"."); build != "" {
		version = fmt.Sprintf("%s+%s", version, build)
	}

	return version
}

// Full returns the version line printed by the --version flag of appName.
func Full(appName string) string {
	return fmt.Sprintf("%s version %s (Go version %s %s/%s)", appName,
		String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// normalize returns the passed string stripped of all characters which are
// not in alphabet.
func normalize(str, alphabet string) string {
	var result strings.Builder
	for _, r := range str {
		if strings.ContainsRune(alphabet, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
