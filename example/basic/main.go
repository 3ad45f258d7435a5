package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/movetrack/tracksync"
)

func main() {
	flow, err := tracksync.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("sync runtime exited: %v", err)
	}
}
