package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flash-me/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	if err != nil {
		cli.WriteError(os.Stderr, err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
