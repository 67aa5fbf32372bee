// Package main provides the entry point for the MoodShelf server application.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/di"
	"github.com/moodshelf/moodshelf-server/internal/di/providers"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*slog.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The stores live behind wrapper handles; close them explicitly in
	// case the container skipped them.
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close session store", "error", err)
		}
	}
	if historyHandle, err := do.Invoke[*providers.HistoryStoreHandle](injector); err == nil {
		if err := historyHandle.Shutdown(); err != nil {
			log.Error("Failed to close history store", "error", err)
		}
	}

	log.Info("Goodbye")
}
