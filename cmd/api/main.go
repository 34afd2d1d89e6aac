package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/encore/internal/adapters/exclusions"
	"github.com/ewilliams-labs/encore/internal/adapters/rest"
	"github.com/ewilliams-labs/encore/internal/adapters/spotify"
	"github.com/ewilliams-labs/encore/internal/auth"
	"github.com/ewilliams-labs/encore/internal/config"
	"github.com/ewilliams-labs/encore/internal/core/ports"
	"github.com/ewilliams-labs/encore/internal/core/services"
	"github.com/ewilliams-labs/encore/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	store, err := exclusions.NewStore(cfg.Storage.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("exclusion store init failed")
	}

	authManager := auth.NewManager(
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
		cfg.Spotify.RedirectURI,
		cfg.Server.SessionCookie,
	)

	recommender := services.NewRecommender(store, log)

	newCatalog := func(httpClient *http.Client) ports.CatalogClient {
		return spotify.NewClient(httpClient, log)
	}

	handler := rest.NewHandler(authManager, recommender, store, newCatalog, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("encore api listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}
