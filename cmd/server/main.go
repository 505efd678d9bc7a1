package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "gitfolio/internal"
	database "gitfolio/internal/db"
	"gitfolio/internal/github"
	"gitfolio/internal/icons"
	"gitfolio/internal/jobs"
	"gitfolio/internal/loader"
	"gitfolio/internal/repos"
	"gitfolio/internal/repository"
	"gitfolio/internal/server"
	"gitfolio/internal/session"
	"gitfolio/internal/stars"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	refreshInterval = 30 * time.Minute
	sessionIdleTTL  = 6 * time.Hour
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	db, err := database.NewDatabase(ctx, configs.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer db.Close()

	if err = db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("unable to ping database")
	}

	githubClient := github.NewClient(configs.GitHubToken)
	oauthClient := github.NewOAuthClient(github.OAuthConfig{
		ClientID:     configs.GitHubClientID,
		ClientSecret: configs.GitHubClientSecret,
		RedirectURL:  configs.BaseURL + "/api/github/callback",
	})

	cacheRepository := repository.NewCacheRepository(db)

	dataLoader := loader.NewAPILoader(githubClient, configs.GitHubUser)
	catalog := repos.NewStore(dataLoader)
	if err = catalog.Load(ctx); err != nil {
		log.Error().Err(err).Msg("initial repository load failed, serving lazily")
	} else {
		log.Info().Int("repos", len(catalog.Repos())).Msg("loaded repositories")
	}

	sessions := session.NewRegistry(func(id string) *stars.Store {
		return stars.NewStore(githubClient, cacheRepository, id)
	}, sessionIdleTTL)
	sessions.StartSweeper(ctx)

	iconResolver := icons.NewResolver(cacheRepository, configs.BaseURL)

	go jobs.RefreshCatalog(ctx, catalog, refreshInterval)

	signer := server.NewCookieSigner(configs.SessionSecret)
	handler := server.NewHandler(catalog, sessions, oauthClient, iconResolver, db, signer, configs.BaseURL)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:    configs.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", configs.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
