package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"weekday/internal/cli"
)

func main() {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.Options{EnvFile: ".env"})
	cancel()
	os.Exit(code)
}
