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

	"github.com/urfave/cli/v3"

	"github.com/Qi-2007/musicgate/internal/auth"
	"github.com/Qi-2007/musicgate/internal/repositories"
	"github.com/Qi-2007/musicgate/internal/server"
	"github.com/Qi-2007/musicgate/internal/shared"
)

// Serve assembles the router and runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config = loaded
	}

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	tokens := auth.NewTokenStore(nil)

	var history server.SearchLogger
	if config.Database.Path != "" {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			r.logger.Warn("search history disabled", "error", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err != nil {
				r.logger.Warn("search history disabled", "error", err)
			} else {
				history = repositories.NewHistoryRepository(db)
			}
		}
	}

	router := server.NewBasicRouter()
	router.Use(server.CORS(), server.RequestID(), server.Logging(r.logger))
	router.Handler(server.NewGateHandler(tokens, config.Gate, r.logger))
	router.Handler(server.NewMusicHandler(r.registry, tokens, history, r.logger))

	srv := &http.Server{
		Addr:         config.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", srv.Addr, "sources", r.registry.Sources())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}
