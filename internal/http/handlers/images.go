package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/providers/background"
	"server/internal/resolver"
	"server/internal/story"
)

type storyBackgroundRequest struct {
	Type        string   `json:"type"`
	Slide       string   `json:"slide"` // accepted as an alias for type
	City        string   `json:"city"`
	Theme       string   `json:"theme"`
	Style       string   `json:"style"`
	DayNumber   int      `json:"dayNumber"`
	Activities  []string `json:"activities"`
	PreferAI    bool     `json:"preferAI"`
	CacheKey    string   `json:"cacheKey"`
	ItineraryID string   `json:"itineraryId"`
}

func (r storyBackgroundRequest) slideType() background.SlideType {
	if r.Type != "" {
		return background.NormalizeSlideType(r.Type)
	}
	return background.NormalizeSlideType(r.Slide)
}

type storyBackgroundResponse struct {
	Success              bool   `json:"success"`
	Image                string `json:"image"`
	Source               string `json:"source"`
	Provider             string `json:"provider,omitempty"`
	Cached               bool   `json:"cached"`
	AIAvailable          bool   `json:"aiAvailable"`
	PexelsAvailable      bool   `json:"pexelsAvailable"`
	TripAdvisorAvailable bool   `json:"tripAdvisorAvailable"`
}

// StoryBackground resolves a single slide background through the provider
// cascade. It always answers 200 with an image once the payload validates.
func (a *App) StoryBackground(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req storyBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "city required")
		return
	}

	slide := req.slideType()
	// A caller-supplied cache key wins over the itinerary-derived one; the
	// cache gate and blob store sanitize it before any filesystem access.
	cacheKey := strings.TrimSpace(req.CacheKey)
	if cacheKey == "" && req.ItineraryID != "" {
		cacheKey = story.CacheKey(req.ItineraryID, slide, req.DayNumber)
	}
	result := a.Backgrounds.Resolve(r.Context(), resolver.Request{
		Request: background.Request{
			Slide:      slide,
			City:       req.City,
			Theme:      req.Theme,
			Style:      req.Style,
			DayNumber:  req.DayNumber,
			Activities: req.Activities,
		},
		UserID:   userID,
		Tier:     a.currentTier(r),
		PreferAI: req.PreferAI,
		CacheKey: cacheKey,
	})

	avail := a.Backgrounds.Availability()
	a.json(w, http.StatusOK, storyBackgroundResponse{
		Success:              true,
		Image:                result.Image,
		Source:               string(result.Source),
		Provider:             result.Provider,
		Cached:               result.Cached,
		AIAvailable:          avail.AI(),
		PexelsAvailable:      avail.Pexels,
		TripAdvisorAvailable: avail.TripAdvisor,
	})
}

// StoryBackgroundSources reports which providers are configured. The curated
// fallback is always on, so clients can rely on at least one source.
func (a *App) StoryBackgroundSources(w http.ResponseWriter, r *http.Request) {
	avail := a.Backgrounds.Availability()
	a.json(w, http.StatusOK, map[string]any{
		"sources": map[string]bool{
			"ai":          avail.AI(),
			"gemini":      avail.Gemini,
			"seedream":    avail.Seedream,
			"tripadvisor": avail.TripAdvisor,
			"pexels":      avail.Pexels,
			"unsplash":    true,
		},
	})
}
