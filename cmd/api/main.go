package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/valentinmaxime/docker-seedbox/internal/adapters/docker"
	httpadapter "github.com/valentinmaxime/docker-seedbox/internal/adapters/http"
	"github.com/valentinmaxime/docker-seedbox/internal/adapters/sysinfo"
	"github.com/valentinmaxime/docker-seedbox/internal/config"
	"github.com/valentinmaxime/docker-seedbox/internal/core/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// 1. Initialize Adapters (Infrastructure)
	runtime, err := docker.NewAdapter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Docker adapter")
	}

	// The runtime control channel being unreachable is the one fatal
	// startup misconfiguration; individual bad requests never are.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := runtime.Ping(ctx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("docker control socket unreachable")
	}
	cancel()

	metrics := sysinfo.NewReader(cfg.HostProc)

	// 2. Assemble the core
	registry := service.NewRegistry(cfg.Services, cfg.Whitelist)
	aggregator := service.NewAggregator(registry, runtime, log)
	dispatcher := service.NewDispatcher(registry, runtime, log)

	// 3. Initialize HTTP Handlers (Interface Adapters)
	handler := httpadapter.NewHandler(aggregator, dispatcher, runtime, metrics, cfg.HostFS, log)

	// 4. Setup Framework (Fiber)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.Register(app.Group("/api"))

	// 5. Start Server
	log.Info().Str("addr", cfg.Addr).Int("whitelist", len(cfg.Whitelist)).Msg("server starting")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
