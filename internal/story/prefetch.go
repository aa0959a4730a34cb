package story

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"server/internal/domain"
	"server/internal/providers/background"
	"server/internal/resolver"
)

// prefetchConcurrency caps parallel day generations. Upstream image APIs
// rate limit aggressively, so day slides are produced two at a time.
const prefetchConcurrency = 2

// Prefetcher warms the background cache for every slide of an itinerary.
type Prefetcher struct {
	resolver *resolver.Resolver
	logger   zerolog.Logger
}

func NewPrefetcher(res *resolver.Resolver, logger zerolog.Logger) *Prefetcher {
	return &Prefetcher{resolver: res, logger: logger}
}

// CacheKey names the stored background for one slide of an itinerary.
func CacheKey(itineraryID string, slide background.SlideType, day int) string {
	if slide == background.SlideDay {
		return fmt.Sprintf("itineraries/%s/day-%d", itineraryID, day)
	}
	return fmt.Sprintf("itineraries/%s/%s", itineraryID, slide)
}

// Warm resolves backgrounds for the cover, every day, and the summary.
// Individual failures are already absorbed by the resolver, so Warm only
// reports how many slides ended up backed by a cached or remote URL.
func (p *Prefetcher) Warm(ctx context.Context, it domain.Itinerary, tier domain.Tier, preferAI bool) int {
	type slide struct {
		slideType background.SlideType
		day       int
	}
	slides := []slide{{background.SlideCover, 0}}
	for _, d := range it.Days {
		slides = append(slides, slide{background.SlideDay, d.Number})
	}
	slides = append(slides, slide{background.SlideSummary, 0})

	results := make([]resolver.Result, len(slides))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)
	for i, s := range slides {
		g.Go(func() error {
			var activities []string
			if day, ok := it.Day(s.day); ok {
				for _, act := range day.Activities {
					activities = append(activities, act.Description)
				}
			}
			results[i] = p.resolver.Resolve(ctx, resolver.Request{
				Request: background.Request{
					Slide:      s.slideType,
					City:       it.City,
					DayNumber:  s.day,
					Activities: activities,
				},
				UserID:   it.UserID,
				Tier:     tier,
				PreferAI: preferAI,
				CacheKey: CacheKey(it.ID, s.slideType, s.day),
			})
			return nil
		})
	}
	_ = g.Wait()

	warmed := 0
	for i, res := range results {
		if res.Image != "" {
			warmed++
			continue
		}
		p.logger.Warn().Str("itinerary_id", it.ID).Str("slide", string(slides[i].slideType)).
			Int("day", slides[i].day).Msg("prefetch produced no image")
	}
	return warmed
}
