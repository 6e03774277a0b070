// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/index"
)

// Run starts the watch runtime: an initial index sync followed by a
// filesystem watcher that keeps the metadata index current until a
// shutdown signal arrives. Frontmatter is never written from here; the
// watcher only classifies and indexes.
func Run(ctx context.Context, opts ...Option) error {
	tk, err := NewToolkit(opts...)
	if err != nil {
		return err
	}
	defer tk.Close()

	cfg, logger := tk.Config, tk.Logger

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	resolve := tk.Tagger.ResolveFunc()

	// Run initial sync.
	if err := index.Sync(tk.DB, tk.Store, resolve, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher.
	g.Go(func() error {
		return index.Watch(gCtx, tk.DB, tk.Store, resolve, logger, nil)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped")
	return nil
}
