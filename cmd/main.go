package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/joho/godotenv"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		stop()
		if errors.Is(err, shared.ErrCancelled) || errors.Is(err, context.Canceled) {
			logger.Warn("cancelled")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
