package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redfroggy/stackdeploy/internal/stackdeploy"
	"github.com/redfroggy/stackdeploy/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := stackdeploy.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error once, then exit
		ui.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
