// recipe-api serves the seed document as the REST backend the recipe UI talks to.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipebox/api"
	"recipebox/config"
	"recipebox/metrics"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadServer()

	cmd := &cobra.Command{
		Use:           "recipe-api",
		Short:         "Serve /recipes from the seed document",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "seed document to serve (RECIPES_DB)")
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address (RECIPES_ADDR)")
	cmd.Flags().StringSliceVar(&cfg.AllowedOrigins, "origin", cfg.AllowedOrigins, "allowed CORS origins (RECIPES_ALLOWED_ORIGINS)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every request (RECIPES_DEBUG)")

	cmd.AddCommand(newSearchCmd(), newFavoriteCmd())
	return cmd
}

func serve(ctx context.Context, cfg *config.ServerConfig) error {
	logger := utils.NewLogger(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenDocumentStore(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.DBPath, err)
	}

	router := api.NewRouter(store, metrics.NewCollector("recipebox"), logger, cfg.AllowedOrigins)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving %s on %s", cfg.DBPath, cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
