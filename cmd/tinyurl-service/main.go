package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bigio/spamassassin-tinyurl/internal/app"
	"github.com/bigio/spamassassin-tinyurl/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("app error: %v", err)
	}
}
