package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"veostudio/internal/http/handlers"
	"veostudio/internal/http/httpapi"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/providers/genai"
	"veostudio/internal/providers/script"
	"veostudio/internal/providers/tryon"
	"veostudio/internal/providers/video"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Credential slot: a user-saved key takes precedence over the env key,
	// read fresh on every upstream call.
	store, err := credentials.Open(cfg.CredentialsDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer store.Close()
	keys := credentials.Chain{store, credentials.StaticKey(cfg.GeminiAPIKey)}

	client, err := genai.NewClient(genai.Options{
		BaseURL: cfg.GeminiBaseURL,
		Keys:    keys,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build genai client")
	}

	scripts, err := script.New(cfg.ScriptBackend,
		script.GeminiOptions{Client: client, Model: cfg.ScriptModel},
		script.RelayOptions{Endpoint: cfg.RelayURL, Token: cfg.RelayToken},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build script generator")
	}

	compositor, err := tryon.NewCompositor(tryon.Options{
		Generator: client,
		Model:     cfg.ImageModel,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build compositor")
	}

	videos, err := video.New(video.Options{
		Client:       client,
		Keys:         keys,
		Model:        cfg.VideoModel,
		PollInterval: cfg.VideoPollInterval,
		PollDeadline: cfg.VideoPollDeadline,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build video orchestrator")
	}

	app := handlers.NewApp(&logger, scripts, compositor, videos, store)
	router := httpapi.NewRouter(app, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
