package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/imagecache"
	"server/internal/providers/background"
	"server/internal/storage"
)

type stubProvider struct {
	name      string
	available bool
	img       *background.Image
	err       error
	calls     int
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }
func (s *stubProvider) TryGenerate(ctx context.Context, req background.Request) (*background.Image, error) {
	s.calls++
	return s.img, s.err
}

func newGate(t *testing.T) *imagecache.Gate {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return imagecache.NewGate(imagecache.Options{Store: store, Logger: zerolog.Nop()})
}

func TestResolvePreferAIFalseNeverInvokesAI(t *testing.T) {
	gemini := &stubProvider{name: "gemini", available: true, img: &background.Image{Data: []byte("x"), Source: background.SourceAI, Provider: "gemini"}}
	seedream := &stubProvider{name: "seedream", available: true, img: &background.Image{Data: []byte("x"), Source: background.SourceAI, Provider: "seedream"}}

	r := New(Options{Gemini: gemini, Seedream: seedream, Logger: zerolog.Nop()})
	result := r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul", Slide: background.SlideCover},
		Tier:     domain.TierPremium,
		PreferAI: false,
	})

	if gemini.calls != 0 || seedream.calls != 0 {
		t.Fatalf("AI providers invoked despite preferAI=false: gemini=%d seedream=%d", gemini.calls, seedream.calls)
	}
	if result.Image == "" {
		t.Fatal("terminal stage must still produce an image")
	}
	if result.Source != background.SourceStockDeterministic {
		t.Fatalf("source = %q", result.Source)
	}
}

func TestResolveFreeTierSkipsAI(t *testing.T) {
	gemini := &stubProvider{name: "gemini", available: true}
	r := New(Options{Gemini: gemini, Logger: zerolog.Nop()})

	r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul"},
		Tier:     domain.TierFree,
		PreferAI: true,
	})
	if gemini.calls != 0 {
		t.Fatalf("free tier must not invoke AI, calls=%d", gemini.calls)
	}
}

func TestResolveCacheShortCircuitsCascade(t *testing.T) {
	gate := newGate(t)
	url := gate.Store(context.Background(), "trip-1/cover", []byte("png"), "image/png")
	if url == "" {
		t.Fatal("seed store failed")
	}

	gemini := &stubProvider{name: "gemini", available: true}
	tripadvisor := &stubProvider{name: "tripadvisor", available: true}

	r := New(Options{Cache: gate, Gemini: gemini, TripAdvisor: tripadvisor, Logger: zerolog.Nop()})
	result := r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul"},
		Tier:     domain.TierPremium,
		PreferAI: true,
		CacheKey: "trip-1/cover",
	})

	if !result.Cached {
		t.Fatal("expected cached result")
	}
	if result.Image != url {
		t.Fatalf("image = %q, want %q", result.Image, url)
	}
	if gemini.calls != 0 || tripadvisor.calls != 0 {
		t.Fatal("cache hit must not invoke any provider")
	}
}

func TestResolveReplaySetsCached(t *testing.T) {
	gate := newGate(t)
	gemini := &stubProvider{name: "gemini", available: true, img: &background.Image{
		Data: []byte("generated"), MIME: "image/png", Source: background.SourceAI, Provider: "gemini",
	}}
	r := New(Options{Cache: gate, Gemini: gemini, Logger: zerolog.Nop()})

	req := Request{
		Request:  background.Request{City: "Seoul", Slide: background.SlideCover},
		Tier:     domain.TierPremium,
		PreferAI: true,
		CacheKey: "trip-2/cover",
	}

	first := r.Resolve(context.Background(), req)
	if first.Cached {
		t.Fatal("first call must not be cached")
	}
	if !strings.HasPrefix(first.Image, "http://") {
		t.Fatalf("expected stored URL, got %q", first.Image)
	}

	second := r.Resolve(context.Background(), req)
	if !second.Cached {
		t.Fatal("replay with same cacheKey must be cached")
	}
	if gemini.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gemini.calls)
	}
}

func TestResolveAIFailureFallsThrough(t *testing.T) {
	seedream := &stubProvider{name: "seedream", available: true, err: errors.New("upstream 500")}
	pexels := &stubProvider{name: "pexels", available: true, img: &background.Image{
		URL: "https://images.pexels.com/p.jpg", Source: background.SourceStockThemed, Provider: "pexels",
	}}

	r := New(Options{Seedream: seedream, Pexels: pexels, Logger: zerolog.Nop()})
	result := r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul"},
		Tier:     domain.TierPro,
		PreferAI: true,
	})

	if seedream.calls != 1 {
		t.Fatalf("seedream calls = %d", seedream.calls)
	}
	if result.Source != background.SourceStockThemed || result.Provider != "pexels" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestResolveNoAICredentialNeverReportsAISource(t *testing.T) {
	// Pro tier prefers AI but no AI provider is configured.
	tripadvisor := &stubProvider{name: "tripadvisor", available: false}
	pexels := &stubProvider{name: "pexels", available: false}

	r := New(Options{TripAdvisor: tripadvisor, Pexels: pexels, Logger: zerolog.Nop()})
	result := r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul", Slide: background.SlideCover},
		Tier:     domain.TierPro,
		PreferAI: true,
	})

	if result.Source == background.SourceAI {
		t.Fatalf("source must not be ai without credentials: %+v", result)
	}
	if result.Image == "" {
		t.Fatal("cascade must terminate with an image")
	}
}

func TestResolveInlinesBytesWhenStoreFails(t *testing.T) {
	// No cache gate at all: AI bytes must be inlined as a data URL.
	gemini := &stubProvider{name: "gemini", available: true, img: &background.Image{
		Data: []byte("generated"), MIME: "image/png", Source: background.SourceAI, Provider: "gemini",
	}}
	r := New(Options{Gemini: gemini, Logger: zerolog.Nop()})

	result := r.Resolve(context.Background(), Request{
		Request:  background.Request{City: "Seoul"},
		Tier:     domain.TierPremium,
		PreferAI: true,
	})
	if !strings.HasPrefix(result.Image, "data:image/png;base64,") {
		t.Fatalf("expected inlined data URL, got %q", result.Image)
	}
	if result.Source != background.SourceAI {
		t.Fatalf("source = %q", result.Source)
	}
}

func TestResolveUnknownCityUsesDefaultPool(t *testing.T) {
	r := New(Options{Logger: zerolog.Nop()})
	result := r.Resolve(context.Background(), Request{
		Request: background.Request{City: "Middle of Nowhere", Slide: background.SlideSummary},
		Tier:    domain.TierFree,
	})
	if result.Image == "" {
		t.Fatal("terminal fallback returned empty image")
	}
	if result.Provider != "unsplash" {
		t.Fatalf("provider = %q", result.Provider)
	}
}
