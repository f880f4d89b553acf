// SPDX-License-Identifier: MIT
//
// Package build holds metadata embedded at link time: the application name,
// build timestamp, Git commit and semantic version, for example
//
//	go build -ldflags "-X audiotrim/pkg/build.buildVersion=0.3.0 \
//	    -X audiotrim/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	    -X audiotrim/pkg/build.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A binary built without any of these flags is a development build and
// reports "dev" for every missing value.
package build

import (
	"fmt"
	"time"
)

const (
	defaultName = "audiotrim"
	devValue    = "dev"
)

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// String formats the flags for `audiotrim --version`.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", f.Version, f.Commit, f.Time)
}

// Package-level variables for build information, populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        defaultName,
		Description: "Cut a time window out of a WAV file and re-encode it as 16-bit PCM",
		Time:        devValue,
		Commit:      devValue,
		Version:     devValue,
	}
)

// Initialize validates and copies build information from the ldflags
// variables. A development build (no flags at all) keeps the defaults; a
// release build that sets some flags must set version, commit and time, and
// the time must be RFC 3339.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		return nil
	}

	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if _, err := time.Parse(time.RFC3339, buildTime); err != nil {
		return fmt.Errorf("BuildTime must be RFC 3339: %w", err)
	}

	if buildName != "" {
		buildFlags.Name = buildName
	}
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information. Initialize()
// should be called first.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
