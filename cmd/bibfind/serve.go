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

	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/server"
	"github.com/hyperjump/bibfind/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Serve the bibliography index over an HTTP JSON API.

The index is built at startup when missing. POST /api/v1/rebuild re-reads the
bibliography and swaps the new index in without interrupting searches.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ixr := newIndexer(cfg, logger)
	if !indexExists(cfg.Index.Dir) {
		logger.Info("building initial index",
			zap.Strings("sources", cfg.Bib.Sources()),
			zap.String("index", cfg.Index.Dir))
		n, err := ixr.Rebuild(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
		logger.Info("index built", zap.Int("documents", n))
	}
	idx, err := index.OpenAt(cfg.Index.Dir)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}

	srv := server.NewServer(idx, ixr, cfg, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
