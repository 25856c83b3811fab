// Package server assembles the benchmark engine behind its HTTP surface.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/envirollm/llm-energy-bench/config"
	"github.com/envirollm/llm-energy-bench/db"
)

// Run opens the results store, starts the HTTP server, and blocks until
// SIGINT/SIGTERM, then shuts down gracefully.
func Run(cfg config.Config) error {
	ctx := context.Background()

	store, err := db.NewClient(ctx, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: NewRouter(cfg, store),
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Printf("API server starting on port %s (store: %s)", cfg.Port, store.Path())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	// Shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}
