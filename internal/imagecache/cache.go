// Package imagecache fronts the blob store with content-addressed cache
// semantics for generated story backgrounds. A miss is a normal outcome and
// a failed write degrades, matching the pipeline's best-effort policy.
package imagecache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"server/internal/storage"
)

// Gate is the cache read/write boundary in front of the provider cascade.
type Gate struct {
	store  storage.BlobStore
	memo   *gocache.Cache
	logger zerolog.Logger
}

// Options configures a Gate.
type Options struct {
	Store   storage.BlobStore
	MemoTTL time.Duration
	Logger  zerolog.Logger
}

// NewGate builds a Gate. MemoTTL bounds the in-process memo of recent
// lookups so hot story replays skip the blob-store stat; zero disables
// nothing, it just falls back to a one-minute default.
func NewGate(opts Options) *Gate {
	ttl := opts.MemoTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Gate{
		store:  opts.Store,
		memo:   gocache.New(ttl, 2*ttl),
		logger: opts.Logger,
	}
}

// Lookup returns the public URL for a previously stored cache key. The
// second return is false on a miss; misses are never errors.
func (g *Gate) Lookup(ctx context.Context, cacheKey string) (string, bool) {
	if g == nil || g.store == nil {
		return "", false
	}
	base := normalizeKey(cacheKey)
	if base == "" {
		return "", false
	}
	if cached, ok := g.memo.Get(base); ok {
		if url, ok := cached.(string); ok && url != "" {
			return url, true
		}
	}
	for _, key := range candidateKeys(base) {
		exists, err := g.store.Exists(ctx, key)
		if err != nil {
			// Treated as a miss: the cascade still produces an image.
			g.logger.Warn().Err(err).Str("cache_key", key).Msg("cache lookup failed, continuing uncached")
			return "", false
		}
		if exists {
			url := g.store.PublicURL(key)
			g.memo.SetDefault(base, url)
			return url, true
		}
	}
	return "", false
}

// Store persists bytes under the cache key with overwrite semantics and
// returns the public URL. On failure it logs and returns an empty URL so
// the caller can inline the raw bytes instead of failing the request.
func (g *Gate) Store(ctx context.Context, cacheKey string, data []byte, contentType string) string {
	if g == nil || g.store == nil || len(data) == 0 {
		return ""
	}
	base := normalizeKey(cacheKey)
	if base == "" {
		return ""
	}
	key := base
	if !strings.Contains(key, ".") {
		key += extensionFor(contentType)
	}
	stored, err := g.store.Write(ctx, key, data)
	if err != nil {
		g.logger.Warn().Err(err).Str("cache_key", key).Str("content_type", contentType).
			Msg("cache write failed, inlining image bytes")
		return ""
	}
	url := g.store.PublicURL(stored)
	g.memo.SetDefault(base, url)
	g.logger.Debug().Str("cache_key", key).Int("bytes", len(data)).Msg("cached generated image")
	return url
}

// normalizeKey maps a caller-supplied cache key to a stable storage key.
// The extension is decided at write time from the content type.
func normalizeKey(cacheKey string) string {
	key := strings.TrimSpace(cacheKey)
	if key == "" {
		return ""
	}
	return strings.ReplaceAll(key, " ", "-")
}

// extensionFor picks the file extension matching the payload so the static
// file server replies with the right content type.
func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// candidateKeys lists the storage keys a bare cache key may live under.
// Keys supplied with an extension are checked as-is.
func candidateKeys(base string) []string {
	if strings.Contains(base, ".") {
		return []string{base}
	}
	return []string{base + ".png", base + ".jpg", base + ".webp"}
}
