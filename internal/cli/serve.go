package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/melodeck/internal/app"
	"github.com/cesargomez89/melodeck/internal/config"
	"github.com/cesargomez89/melodeck/internal/constants"
	httpapp "github.com/cesargomez89/melodeck/internal/http"
	"github.com/cesargomez89/melodeck/internal/logger"
	"github.com/cesargomez89/melodeck/internal/storage"
	"github.com/cesargomez89/melodeck/internal/store"
)

func newServeCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
}

func runServe(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	srv, cleanup, err := buildServer(cfg, log)
	if err != nil {
		log.Error("Failed to start", "error", err)
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr, "db", cfg.DBPath, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// buildServer opens the database and asset directory and wires the HTTP
// stack. cleanup closes the database.
func buildServer(cfg *config.Config, log *logger.Logger) (*http.Server, func(), error) {
	db, err := store.NewSQLiteDB(cfg.DBPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init DB: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close DB", "error", err)
		}
	}

	assets, err := storage.NewAssetStore(cfg.DataDir, cfg.MaxUploadBytes)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	h := httpapp.NewHandler(
		app.NewMusicService(store.NewCatalogRepo(db), assets, log),
		app.NewPlaylistService(store.NewPlaylistRepo(db), log),
		app.NewCommentService(store.NewCommentRepo(db), log),
		app.NewAccountService(store.NewAccountRepo(db), log),
		assets.Handler(),
		assets.MaxSize(),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapp.NewRouter(h, cfg.StaticDir),
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}
	return srv, cleanup, nil
}
