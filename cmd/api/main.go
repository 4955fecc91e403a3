package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tensorbridge/internal/http/handlers"
	"tensorbridge/internal/http/httpapi"
	"tensorbridge/internal/imagegen"
	"tensorbridge/internal/infra"
	"tensorbridge/internal/providers/tensorart"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	scheme, err := tensorart.SchemeByName(cfg.TamsSigningScheme)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid signing scheme")
	}
	keyPEM, err := tensorart.LoadKeyMaterial(cfg.TamsPrivateKeyPath, cfg.TamsPrivateKeyBase64)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load private key material")
	}

	client, err := tensorart.NewClient(tensorart.Options{
		AppID:          cfg.TamsAppID,
		APIKey:         cfg.TamsAPIKey,
		PrivateKeyPEM:  keyPEM,
		Endpoint:       cfg.TamsEndpoint,
		Scheme:         scheme,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure tensorart client")
	}

	orchestrator := tensorart.NewOrchestrator(tensorart.OrchestratorOptions{
		Client:       client,
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.PollMaxAttempts,
		Logger:       &logger,
	})

	images, err := imagegen.NewService(imagegen.Options{
		Client:       client,
		Orchestrator: orchestrator,
		ModelID:      cfg.TamsModelID,
		Width:        cfg.ImageWidth,
		Height:       cfg.ImageHeight,
		Steps:        cfg.ImageSteps,
		Sampler:      cfg.ImageSampler,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image generation service")
	}

	app := handlers.NewApp(images, logger)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
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
