// Command consumer drains the question.served queue into logs/question.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/iliyamo/question-service/internal/config"
	"github.com/iliyamo/question-service/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadEventsConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("served-consumer starting", "queue", cfg.Queue, "dir", cfg.LogDir)
	if err := queue.StartServedConsumer(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("served-consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info("served-consumer stopped")
}
