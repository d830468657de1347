// Package main provides a CLI for managing registered passkeys.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ente-io/passkeys-go/internal/platform/config"

	passkeyscmd "github.com/ente-io/passkeys-go/internal/cmd/passkeys"
)

func main() {
	cfg, err := passkeyscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := passkeyscmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
