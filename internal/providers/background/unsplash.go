package background

import (
	"context"
	"strings"
)

// curatedCityPhotos maps lowercased city names to hand-picked Unsplash
// photos that look good behind story text. Keys are matched exactly first,
// then by substring, so "New York City" still hits "new york".
var curatedCityPhotos = map[string][]string{
	"paris": {
		"https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=1080&h=1920&fit=crop",
		"https://images.unsplash.com/photo-1499856871958-5b9627545d1a?w=1080&h=1920&fit=crop",
	},
	"tokyo": {
		"https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?w=1080&h=1920&fit=crop",
		"https://images.unsplash.com/photo-1503899036084-c55cdd92da26?w=1080&h=1920&fit=crop",
	},
	"seoul": {
		"https://images.unsplash.com/photo-1538485399081-7191377e8241?w=1080&h=1920&fit=crop",
		"https://images.unsplash.com/photo-1517154421773-0529f29ea451?w=1080&h=1920&fit=crop",
	},
	"new york": {
		"https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?w=1080&h=1920&fit=crop",
		"https://images.unsplash.com/photo-1522083165195-3424ed129620?w=1080&h=1920&fit=crop",
	},
	"london": {
		"https://images.unsplash.com/photo-1513635269975-59663e0ac1ad?w=1080&h=1920&fit=crop",
		"https://images.unsplash.com/photo-1486299267070-83823f5448dd?w=1080&h=1920&fit=crop",
	},
	"rome": {
		"https://images.unsplash.com/photo-1552832230-c0197dd311b5?w=1080&h=1920&fit=crop",
	},
	"barcelona": {
		"https://images.unsplash.com/photo-1583422409516-2895a77efded?w=1080&h=1920&fit=crop",
	},
	"bangkok": {
		"https://images.unsplash.com/photo-1508009603885-50cf7c579365?w=1080&h=1920&fit=crop",
	},
	"bali": {
		"https://images.unsplash.com/photo-1537996194471-e657df975ab4?w=1080&h=1920&fit=crop",
	},
	"istanbul": {
		"https://images.unsplash.com/photo-1524231757912-21f4fe3a7200?w=1080&h=1920&fit=crop",
	},
	"dubai": {
		"https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=1080&h=1920&fit=crop",
	},
	"sydney": {
		"https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9?w=1080&h=1920&fit=crop",
	},
}

// defaultTravelPhotos backs cities outside the curated map. Never empty.
var defaultTravelPhotos = []string{
	"https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1476514525535-07fb3b4ae5f1?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1500835556837-99ac94a94552?w=1080&h=1920&fit=crop",
}

// UnsplashPicker is the terminal cascade stage: a deterministic pick from a
// static table. It is always available and never returns an error or a nil
// image.
type UnsplashPicker struct{}

func NewUnsplashPicker() *UnsplashPicker { return &UnsplashPicker{} }

func (p *UnsplashPicker) Name() string    { return "unsplash" }
func (p *UnsplashPicker) Available() bool { return true }

// TryGenerate picks from the curated pool for the city, or from the default
// pool for unknown cities. The index is seeded from city and slide so
// replays of one slide are stable within a process.
func (p *UnsplashPicker) TryGenerate(ctx context.Context, req Request) (*Image, error) {
	pool := poolForCity(req.City)
	idx := deterministicSeed(strings.ToLower(strings.TrimSpace(req.City)), string(req.Slide), req.DayNumber) % len(pool)
	return &Image{
		URL:      pool[idx],
		MIME:     "image/jpeg",
		Source:   SourceStockDeterministic,
		Provider: p.Name(),
	}, nil
}

func poolForCity(city string) []string {
	key := strings.ToLower(strings.TrimSpace(city))
	if photos, ok := curatedCityPhotos[key]; ok && len(photos) > 0 {
		return photos
	}
	for name, photos := range curatedCityPhotos {
		if len(photos) == 0 {
			continue
		}
		if strings.Contains(key, name) || strings.Contains(name, key) && key != "" {
			return photos
		}
	}
	return defaultTravelPhotos
}

var _ Provider = (*UnsplashPicker)(nil)
