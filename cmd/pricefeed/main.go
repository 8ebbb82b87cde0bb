// cmd/pricefeed/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/pricefeed/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal cancels the batch so partial results are still written,
	// a second one exits immediately
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
