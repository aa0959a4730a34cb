package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/imagecache"
	"server/internal/infra"
	"server/internal/providers/background"
	"server/internal/providers/seedream"
	"server/internal/resolver"
	"server/internal/storage"
	"server/internal/story"
)

// Warms the slide-background cache for one itinerary ahead of a share. Meant
// for support tooling and smoke tests against a real database.
func main() {
	var (
		itineraryID = flag.String("itinerary", "", "itinerary id to warm")
		userID      = flag.String("user", "", "owner user id")
		tierFlag    = flag.String("tier", "free", "tier to resolve with (free, pro, premium)")
		preferAI    = flag.Bool("prefer-ai", false, "request AI backgrounds when entitled")
		timeout     = flag.Duration("timeout", 3*time.Minute, "overall deadline")
	)
	flag.Parse()
	if *itineraryID == "" || *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: prefetch -itinerary <id> -user <id> [-tier pro] [-prefer-ai]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.StorageBasePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image store")
	}
	gate := imagecache.NewGate(imagecache.Options{Store: store, MemoTTL: cfg.CacheMemoTTL, Logger: logger})

	geminiProvider, err := background.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiImageModel)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini image provider disabled")
	}
	seedreamProvider := background.NewSeedreamProvider(seedream.NewClient(seedream.Options{
		APIKey:         cfg.SeedreamAPIKey,
		BaseURL:        cfg.SeedreamBaseURL,
		Model:          cfg.SeedreamModel,
		RequestTimeout: cfg.ProviderTimeout,
		Logger:         &logger,
	}))
	tripAdvisor := background.NewTripAdvisorProvider(background.TripAdvisorOptions{APIKey: cfg.TripAdvisorAPIKey, Timeout: cfg.ProviderTimeout})
	pexels := background.NewPexelsProvider(background.PexelsOptions{APIKey: cfg.PexelsAPIKey, Timeout: cfg.ProviderTimeout})

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

	itineraries := repo.NewItineraryRepository(infra.NewSQLRunner(dbpool, logger))
	it, err := itineraries.GetForUser(ctx, *itineraryID, *userID)
	if err != nil {
		logger.Fatal().Err(err).Str("itinerary_id", *itineraryID).Msg("load itinerary failed")
	}

	warmed := story.NewPrefetcher(backgrounds, logger).Warm(ctx, *it, domain.NormalizeTier(*tierFlag), *preferAI)
	logger.Info().Int("warmed", warmed).Int("days", it.DayCount()).Msg("prefetch complete")
}
