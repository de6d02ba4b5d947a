// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/cli"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/logger"
	verpkg "github.com/H0llyW00dzZ/tls-mtls-test-client/src/version"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func main() {
	// Create CLI logger
	log := logger.NewCLILogger()

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling using signal.NotifyContext for cleaner cancellation
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to signal completion
	done := make(chan error, 1)

	// Run the client in a separate goroutine
	go func() {
		done <- cli.Execute(ctx, version, log)
	}()

	// Wait for either completion or context cancellation. A user-sent
	// interrupt is the only way to cancel a blocked handshake or write.
	select {
	case err := <-done:
		switch {
		case errors.Is(err, cli.ErrUsageDisplayed):
			os.Exit(2)
		case err != nil:
			log.Printf("Run failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Println("Interrupted. Exiting...")
		// Give the client a moment to clean up
		select {
		case <-done:
			// Client finished cleaning up
		case <-time.After(100 * time.Millisecond):
			// Timeout waiting for cleanup
		}
		os.Exit(130) // Standard exit code for SIGINT
	}
}
