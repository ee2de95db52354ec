// Grelha: stock count for a skewer grill.
//
// Tracks stock, sales and staff consumption per skewer type, takes free
// text lists and sentences, and shares the day's report over WhatsApp.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		// Force exit after timeout
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}
