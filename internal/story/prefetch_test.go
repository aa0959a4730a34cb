package story

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"server/internal/domain"
	"server/internal/resolver"
)

func TestWarmCoversEverySlide(t *testing.T) {
	res := resolver.New(resolver.Options{Logger: zerolog.Nop()})
	p := NewPrefetcher(res, zerolog.Nop())

	it := domain.Itinerary{
		ID:     "trip-1",
		UserID: "user-1",
		City:   "Lisbon",
		Days: []domain.Day{
			{Number: 1, Activities: []domain.Activity{{Description: "Tram 28"}}},
			{Number: 2},
			{Number: 3},
		},
	}

	warmed := p.Warm(context.Background(), it, domain.TierFree, false)
	// Cover + 3 days + summary, all satisfiable by the terminal picker.
	assert.Equal(t, 5, warmed)
}

func TestWarmEmptyItinerary(t *testing.T) {
	res := resolver.New(resolver.Options{Logger: zerolog.Nop()})
	p := NewPrefetcher(res, zerolog.Nop())

	warmed := p.Warm(context.Background(), domain.Itinerary{ID: "x", City: "Oslo"}, domain.TierPro, false)
	assert.Equal(t, 2, warmed)
}
