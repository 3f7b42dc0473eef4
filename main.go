package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"holskywallet/cmd"

	"github.com/fatih/color"
)

// Version should be set during build
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Version = Version
	if err := cmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
