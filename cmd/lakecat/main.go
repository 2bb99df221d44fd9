// Package main is the entry point for the lakecat command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/datapond/lakecat/cmd/lakecat/app"
	"github.com/datapond/lakecat/internal/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		logger.Errorf("%v", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
