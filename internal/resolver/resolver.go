// Package resolver walks the ordered background-image cascade: cache, then
// AI generation when the tier allows it, then location photos, then themed
// stock, then a deterministic curated pick that cannot fail.
package resolver

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/entitlement"
	"server/internal/imagecache"
	"server/internal/providers/background"
)

// Availability is the injected snapshot of which providers hold
// credentials. It is built once at construction from configuration instead
// of consulting globals per request.
type Availability struct {
	Gemini      bool
	Seedream    bool
	TripAdvisor bool
	Pexels      bool
}

// AI reports whether any AI generator is configured.
func (a Availability) AI() bool {
	return a.Gemini || a.Seedream
}

// Request is one background resolution, carrying the image parameters plus
// the caller's entitlement inputs.
type Request struct {
	background.Request
	UserID   string
	Tier     domain.Tier
	PreferAI bool
	CacheKey string
}

// Result is the single image resolved for a request.
type Result struct {
	Image    string
	Source   background.Source
	Provider string
	Cached   bool
}

// Resolver owns the provider chain. Stages run strictly sequentially;
// first success wins and no later provider is consulted.
type Resolver struct {
	gate     *imagecache.Gate
	ai       map[string]background.Provider
	photos   []background.Provider
	terminal background.Provider
	avail    Availability
	logger   zerolog.Logger
	now      func() time.Time
}

// Options wires a Resolver.
type Options struct {
	Cache        *imagecache.Gate
	Gemini       background.Provider
	Seedream     background.Provider
	TripAdvisor  background.Provider
	Pexels       background.Provider
	Terminal     background.Provider
	Availability Availability
	Logger       zerolog.Logger
}

// New builds a Resolver. Terminal defaults to the curated Unsplash picker
// so the chain always has a stage that cannot fail.
func New(opts Options) *Resolver {
	terminal := opts.Terminal
	if terminal == nil {
		terminal = background.NewUnsplashPicker()
	}
	ai := make(map[string]background.Provider, 2)
	if opts.Gemini != nil {
		ai[opts.Gemini.Name()] = opts.Gemini
	}
	if opts.Seedream != nil {
		ai[opts.Seedream.Name()] = opts.Seedream
	}
	var photos []background.Provider
	if opts.TripAdvisor != nil {
		photos = append(photos, opts.TripAdvisor)
	}
	if opts.Pexels != nil {
		photos = append(photos, opts.Pexels)
	}
	return &Resolver{
		gate:     opts.Cache,
		ai:       ai,
		photos:   photos,
		terminal: terminal,
		avail:    opts.Availability,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// Availability exposes the injected provider snapshot.
func (r *Resolver) Availability() Availability {
	return r.avail
}

// Resolve produces exactly one image for the request. It never returns an
// error: every failure short of the terminal stage is logged and skipped,
// and the terminal stage always yields a value.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	if url, ok := r.lookupCache(ctx, req.CacheKey); ok {
		return Result{Image: url, Source: background.SourceAI, Provider: "cache", Cached: true}
	}

	if entitlement.CanUseAI(req.Tier, req.PreferAI) {
		if result, ok := r.tryAI(ctx, req); ok {
			return result
		}
	}

	for _, provider := range r.photos {
		if result, ok := r.tryProvider(ctx, provider, req); ok {
			return result
		}
	}

	// Terminal stage: cannot fail.
	img, err := r.terminal.TryGenerate(ctx, req.Request)
	if err != nil || img == nil {
		// Should be unreachable; keep the contract anyway.
		r.logger.Error().Err(err).Msg("terminal picker returned nothing")
		return Result{Source: background.SourceStockDeterministic, Provider: r.terminal.Name()}
	}
	return Result{Image: img.URL, Source: img.Source, Provider: img.Provider}
}

func (r *Resolver) lookupCache(ctx context.Context, cacheKey string) (string, bool) {
	if r.gate == nil || cacheKey == "" {
		return "", false
	}
	return r.gate.Lookup(ctx, cacheKey)
}

func (r *Resolver) tryAI(ctx context.Context, req Request) (Result, bool) {
	name := entitlement.AIProviderFor(req.Tier)
	provider, ok := r.ai[name]
	if !ok || !provider.Available() {
		r.logger.Debug().Str("provider", name).Msg("ai provider not configured, skipping")
		return Result{}, false
	}
	img, err := provider.TryGenerate(ctx, req.Request)
	if err != nil {
		// AI failure is never fatal to the request.
		r.logger.Warn().Err(err).Str("provider", name).Str("reason", "provider_call_failure").
			Msg("ai generation failed, continuing cascade")
		return Result{}, false
	}
	if img == nil {
		return Result{}, false
	}
	if len(img.Data) > 0 {
		return Result{
			Image:    r.persistOrInline(ctx, req, img),
			Source:   img.Source,
			Provider: img.Provider,
		}, true
	}
	if img.URL != "" {
		return Result{Image: img.URL, Source: img.Source, Provider: img.Provider}, true
	}
	return Result{}, false
}

func (r *Resolver) tryProvider(ctx context.Context, provider background.Provider, req Request) (Result, bool) {
	if !provider.Available() {
		return Result{}, false
	}
	img, err := provider.TryGenerate(ctx, req.Request)
	if err != nil {
		r.logger.Warn().Err(err).Str("provider", provider.Name()).Str("reason", "provider_call_failure").
			Msg("photo search failed, continuing cascade")
		return Result{}, false
	}
	if img == nil || img.URL == "" {
		return Result{}, false
	}
	return Result{Image: img.URL, Source: img.Source, Provider: img.Provider}, true
}

// persistOrInline uploads generated bytes under the request's cache key
// (or a derived per-user path) and returns the public URL; when the upload
// fails the raw payload is inlined as a data URL instead.
func (r *Resolver) persistOrInline(ctx context.Context, req Request, img *background.Image) string {
	key := req.CacheKey
	if key == "" {
		key = fmt.Sprintf("generated/%s/%s-%d-%d", req.UserID, req.Slide, req.DayNumber, r.now().UnixNano())
	}
	mime := img.MIME
	if mime == "" {
		mime = "image/png"
	}
	if r.gate != nil {
		if url := r.gate.Store(ctx, key, img.Data, mime); url != "" {
			return url
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
