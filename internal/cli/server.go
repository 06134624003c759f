package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/internal/server"
	"github.com/hyperjump/findword/internal/watcher"
	"github.com/hyperjump/findword/pkg/utils"
)

func newServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the findword HTTP API server",
		Long: `Run the HTTP API server. When watching is enabled, the configured
words CSV is reloaded into storage whenever it changes on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolvedPath, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			debug := cfg.Debug || debugMode
			logger, err := utils.NewLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync()
			logger.Info("config loaded",
				zap.String("config_path", resolvedPath),
				zap.Bool("debug", debug))

			comp, err := initComponents(cfg, logger)
			if err != nil {
				return err
			}
			defer comp.Close()

			// The keyword index lives outside the store, so it can be
			// empty or stale after an index wipe. Rebuild it from the
			// store before serving search.
			if n, err := comp.Loader.RebuildIndex(cmd.Context()); err != nil {
				logger.Warn("keyword index rebuild failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("keyword index rebuilt", zap.Int("words", n))
			}

			if cfg.Watch.EnabledOrDefault() && cfg.Ingest.WordsCSV != "" {
				w := watcher.NewWatcher(cfg.Ingest.WordsCSV, func(path string) {
					report, err := comp.Loader.LoadFile(context.Background(), path, ingest.LoadOptions{
						Mode:      models.LoadApply,
						ChunkSize: cfg.Ingest.ChunkSize,
					})
					if err != nil {
						logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
						return
					}
					logger.Info("reload complete",
						zap.String("path", path),
						zap.Int("created", report.Created),
						zap.Int("updated", report.Updated),
						zap.Int("errors", report.Errors))
				}, watcher.WithLogger(logger))
				watchCtx, watchCancel := context.WithCancel(context.Background())
				defer watchCancel()
				if err := w.Start(watchCtx); err != nil {
					return fmt.Errorf("failed to start watcher: %w", err)
				}
				defer w.Stop()
				logger.Info("watching words csv", zap.String("path", w.Path()))
			}

			srv := server.NewServer(comp.Engine, comp.Loader, comp.Index, cfg, logger)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Server failed", zap.Error(err))
				}
			}()

			<-cmd.Context().Done()
			logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Warn("shutdown incomplete", zap.Error(err))
			}
			return nil
		},
	}
}
