package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hyperjump/bibfind/internal/watcher"
	"github.com/hyperjump/bibfind/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the index whenever the bibliography changes",
	Long: `Watch the bibliography files and rebuild the index after each change.

Useful next to a periodic "git pull" of a cryptobib checkout: searches always
run against the current bibliography without manual -u rebuilds.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	logger.Info("building initial index",
		zap.Strings("sources", cfg.Bib.Sources()),
		zap.String("index", cfg.Index.Dir))
	n, err := ixr.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	logger.Info("index built", zap.Int("documents", n))

	// Serialize rebuilds; the watcher already coalesces bursts, this guards
	// against a change arriving mid-rebuild.
	var rebuildMu sync.Mutex
	onChange := func() {
		rebuildMu.Lock()
		defer rebuildMu.Unlock()
		logger.Info("bibliography changed, rebuilding index")
		n, err := ixr.Rebuild(context.Background())
		if err != nil {
			logger.Error("rebuild failed", zap.Error(err))
			return
		}
		logger.Info("index rebuilt", zap.Int("documents", n))
	}

	var opts []watcher.WatcherOption
	if cfg.Debug {
		opts = append(opts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Bib.Sources(), onChange, opts...)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()
	logger.Info("watching bibliography", zap.Strings("files", w.Files()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("stopping", zap.String("signal", sig.String()))
	return nil
}
