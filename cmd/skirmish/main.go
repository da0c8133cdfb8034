// Package main provides the CLI for resolving skirmish scenarios.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/skirmish-engine/internal/platform/config"

	skirmishcmd "github.com/louisbranch/skirmish-engine/internal/cmd/skirmish"
)

func main() {
	cfg, err := skirmishcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[SKIRMISH] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := skirmishcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
