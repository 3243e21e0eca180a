package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/cexpand/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.Execute(ctx)
}
