package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/imagecache"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/providers/background"
	"server/internal/providers/prompt"
	"server/internal/providers/seedream"
	"server/internal/resolver"
	"server/internal/storage"
	"server/internal/story"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		geoResolver = nil
	}

	store, err := storage.NewFileStore(cfg.StorageBasePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image store")
	}
	gate := imagecache.NewGate(imagecache.Options{
		Store:   store,
		MemoTTL: cfg.CacheMemoTTL,
		Logger:  logger,
	})

	geminiProvider, err := background.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiImageModel)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini image provider disabled")
	}
	seedreamClient := seedream.NewClient(seedream.Options{
		APIKey:         cfg.SeedreamAPIKey,
		BaseURL:        cfg.SeedreamBaseURL,
		Model:          cfg.SeedreamModel,
		RequestTimeout: cfg.ProviderTimeout,
		Logger:         &logger,
	})
	seedreamProvider := background.NewSeedreamProvider(seedreamClient)
	tripAdvisor := background.NewTripAdvisorProvider(background.TripAdvisorOptions{
		APIKey:  cfg.TripAdvisorAPIKey,
		Timeout: cfg.ProviderTimeout,
	})
	pexels := background.NewPexelsProvider(background.PexelsOptions{
		APIKey:  cfg.PexelsAPIKey,
		Timeout: cfg.ProviderTimeout,
	})

	backgrounds := resolver.New(resolver.Options{
		Cache:       gate,
		Gemini:      geminiProvider,
		Seedream:    seedreamProvider,
		TripAdvisor: tripAdvisor,
		Pexels:      pexels,
		Availability: resolver.Availability{
			Gemini:      geminiProvider != nil && geminiProvider.Available(),
			Seedream:    seedreamProvider.Available(),
			TripAdvisor: tripAdvisor.Available(),
			Pexels:      pexels.Available(),
		},
		Logger: logger,
	})

	app := &handlers.App{
		Logger:      logger,
		JWTSecret:   cfg.JWTSecret,
		Itineraries: repo.NewItineraryRepository(sqlRunner),
		Users:       repo.NewUserRepository(sqlRunner),
		Spots:       repo.NewSpotRepository(sqlRunner),
		Backgrounds: backgrounds,
		Renderer:    story.NewRenderer(story.RendererOptions{FontPath: cfg.FontPath, Logger: logger}),
		Warmer:      story.NewPrefetcher(backgrounds, logger),
		Planner:     buildPlanner(cfg, logger),
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		GeoIP:           geoResolver,
		Blobs:           store,
	})
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

func buildPlanner(cfg *infra.Config, logger infra.Logger) prompt.Planner {
	static := prompt.NewStaticPlanner()
	if cfg.PlannerProvider != "gemini" || cfg.GeminiAPIKey == "" {
		logger.Info().Msg("planner: static templates")
		return static
	}
	planner, err := prompt.NewGeminiPlanner(prompt.GeminiOptions{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiTextModel,
		BaseURL:  cfg.GeminiBaseURL,
		Fallback: static,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("planner: gemini unavailable, using static templates")
		return static
	}
	return planner
}
