package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/BaGreal2/filmes-server/internal/auth"
	"github.com/BaGreal2/filmes-server/internal/config"
	"github.com/BaGreal2/filmes-server/internal/db"
	"github.com/BaGreal2/filmes-server/internal/handler"
	"github.com/BaGreal2/filmes-server/internal/logging"
	"github.com/BaGreal2/filmes-server/internal/store"
	"github.com/BaGreal2/filmes-server/internal/tmdb"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, db.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return err
	}

	provider := auth.NewGoogleProvider(ctx, auth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	}, logger)

	manager := auth.NewManager(store.NewUserStore(database), provider, auth.Options{
		Secret:       cfg.Secret,
		SessionTTL:   cfg.Session.TTL,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		Logger:       logger,
	})

	catalog := tmdb.NewClient(tmdb.Config{
		BaseURL:  cfg.TMDB.BaseURL,
		Bearer:   cfg.TMDB.Bearer,
		APIKey:   cfg.TMDB.APIKey,
		Language: cfg.TMDB.Language,
		Timeout:  cfg.TMDB.Timeout,
	})

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Port),
		Handler: handler.NewRouter(handler.Deps{
			Auth:      manager,
			Catalog:   catalog,
			Favorites: store.NewFavoriteStore(database),
			History:   store.NewHistoryStore(database),
			DB:        database,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "google_login", provider.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
