// Command ragindex builds and queries a retrieval index over a text corpus.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/cli"
)

func main() {
	// API keys may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	cli.SetBootstrap(newBootstrap())
	cli.SetEmbeddingValidator(ai.NewConfigValidator())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	// cobra has already printed the error.
	if err != nil {
		os.Exit(1)
	}
}
