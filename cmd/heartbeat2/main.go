package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deadlytoah/heartbeat2"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

func mainE() error {
	configPath := heartbeat2.DefaultConfigFileName
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	logger := logging.New(heartbeat2.AppID, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer cancel()

	return heartbeat2.Run(ctx, logger, configPath)
}

func main() {
	if err := mainE(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
