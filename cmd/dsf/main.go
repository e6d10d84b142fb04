// Package main provides the entry point for the dsf CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/dsf/internal/cli"
	"github.com/mrz1836/dsf/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"     //nolint:gochecknoglobals // ldflags target
	commit  = "none"    //nolint:gochecknoglobals // ldflags target
	date    = "unknown" //nolint:gochecknoglobals // ldflags target
)

func main() {
	handler := signal.NewHandler(context.Background())

	err := cli.Execute(handler.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	handler.Stop()

	os.Exit(cli.ExitCodeForError(err))
}
