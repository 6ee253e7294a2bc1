package main

import (
	"log/slog"
	"os"

	"github.com/aryankumar/sep/internal/cli"
	"github.com/aryankumar/sep/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler(nil)

	// Execute the CLI
	if err := cli.Execute(ctx); err != nil {
		slog.Error("command failed", "error", util.FriendlyError(err))
		os.Exit(1)
	}
}
