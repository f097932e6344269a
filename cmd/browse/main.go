package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjmatta/browser-use-cli/internal/cli"
	"github.com/sjmatta/browser-use-cli/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		logging.Root().Error("browse failed", "err", err)
		os.Exit(1)
	}
}
