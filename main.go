// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"

	"audiotrim/cmd"
	applog "audiotrim/internal/log"
	"audiotrim/pkg/build"
)

// main wires build information and hands off to the command line. Every
// subcommand loads its configuration and opens its own resources, so there is
// nothing to tear down here beyond reporting the error.
func main() {
	if err := build.Initialize(); err != nil {
		applog.Fatalf("build: %v", err)
	}

	if err := cmd.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		applog.Fatalf("%s: %v", build.GetBuildFlags().Name, err)
	}
}
