package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/entitlement"
	"server/internal/providers/background"
	"server/internal/resolver"
	"server/internal/story"
	"server/pkg/zip"
)

const warmTimeout = 2 * time.Minute

// StorySlide renders one story slide as PNG. The endpoint never fails once
// routed: unknown itineraries and render problems all degrade to a gradient
// placeholder so the client always has pixels to show.
func (a *App) StorySlide(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")
	slide := background.NormalizeSlideType(r.URL.Query().Get("slide"))
	day, _ := strconv.Atoi(r.URL.Query().Get("day"))
	preferAI := r.URL.Query().Get("prefer_ai") == "true"

	it, err := a.Itineraries.GetForUser(r.Context(), id, userID)
	if err != nil {
		a.Logger.Warn().Err(err).Str("itinerary_id", id).Msg("story slide without itinerary")
		a.servePlaceholder(w, "your trip", "tripstories")
		return
	}

	data := story.SlideData{
		Slide:     slide,
		City:      it.City,
		Title:     it.Title,
		TotalDays: it.DayCount(),
	}
	req := background.Request{Slide: slide, City: it.City}
	if slide == background.SlideDay {
		d, ok := it.Day(day)
		if !ok {
			a.servePlaceholder(w, it.City, it.Title)
			return
		}
		data.DayNumber = day
		data.Day = &d
		req.DayNumber = day
		for _, act := range d.Activities {
			req.Activities = append(req.Activities, act.Description)
		}
	}

	result := a.Backgrounds.Resolve(r.Context(), resolver.Request{
		Request:  req,
		UserID:   userID,
		Tier:     a.currentTier(r),
		PreferAI: preferAI,
		CacheKey: story.CacheKey(it.ID, slide, day),
	})
	data.Background = result.Image

	png, err := a.Renderer.Render(r.Context(), data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("slide render failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to render slide")
		return
	}
	servePNG(w, png)
}

// StoryPrefetch warms the background cache for every slide of a trip.
func (a *App) StoryPrefetch(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	it, err := a.Itineraries.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "itinerary not found")
		return
	}
	warmed := a.Warmer.Warm(r.Context(), *it, a.currentTier(r), r.URL.Query().Get("prefer_ai") == "true")
	a.json(w, http.StatusOK, map[string]any{"success": true, "warmed": warmed})
}

// StoryArchive renders every slide and streams them as a single zip.
func (a *App) StoryArchive(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	tier := a.currentTier(r)
	if !entitlement.CanExportStory(tier) {
		a.error(w, http.StatusForbidden, "forbidden", "story export not available on this plan")
		return
	}
	it, err := a.Itineraries.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "itinerary not found")
		return
	}

	var entries []zip.Entry
	add := func(name string, data story.SlideData, req background.Request, cacheKey string) {
		result := a.Backgrounds.Resolve(r.Context(), resolver.Request{
			Request:  req,
			UserID:   userID,
			Tier:     tier,
			CacheKey: cacheKey,
		})
		data.Background = result.Image
		png, err := a.Renderer.Render(r.Context(), data)
		if err != nil {
			a.Logger.Warn().Err(err).Str("slide", name).Msg("archive slide skipped")
			return
		}
		entries = append(entries, zip.Entry{
			Filename: name + "." + zip.ExtensionForMIME("image/png"),
			MIME:     "image/png",
			Data:     png,
		})
	}

	add("01-cover",
		story.SlideData{Slide: background.SlideCover, City: it.City, Title: it.Title, TotalDays: it.DayCount()},
		background.Request{Slide: background.SlideCover, City: it.City},
		story.CacheKey(it.ID, background.SlideCover, 0))
	for i := range it.Days {
		d := it.Days[i]
		req := background.Request{Slide: background.SlideDay, City: it.City, DayNumber: d.Number}
		for _, act := range d.Activities {
			req.Activities = append(req.Activities, act.Description)
		}
		add(fmt.Sprintf("%02d-day-%d", i+2, d.Number),
			story.SlideData{Slide: background.SlideDay, City: it.City, Title: it.Title, DayNumber: d.Number, Day: &d, TotalDays: it.DayCount()},
			req,
			story.CacheKey(it.ID, background.SlideDay, d.Number))
	}
	add(fmt.Sprintf("%02d-summary", it.DayCount()+2),
		story.SlideData{Slide: background.SlideSummary, City: it.City, Title: it.Title, TotalDays: it.DayCount()},
		background.Request{Slide: background.SlideSummary, City: it.City},
		story.CacheKey(it.ID, background.SlideSummary, 0))

	archive := zip.Archive(entries)
	if len(archive) == 0 {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "story-"+it.ID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// warmSlides runs a prefetch detached from the request that triggered it.
func (a *App) warmSlides(it domain.Itinerary, tier domain.Tier) {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()
	warmed := a.Warmer.Warm(ctx, it, tier, false)
	a.Logger.Info().Str("itinerary_id", it.ID).Int("warmed", warmed).Msg("slides prefetched")
}

func (a *App) servePlaceholder(w http.ResponseWriter, city, label string) {
	png, err := a.Renderer.Placeholder(city, label)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to render placeholder")
		return
	}
	servePNG(w, png)
}

func servePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
