package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/itinerary"
	"server/internal/middleware"
	"server/internal/providers/prompt"
)

type itineraryCreateRequest struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Days      int      `json:"days"`
	Interests []string `json:"interests"`
}

// ItinerariesCreate plans a new trip. The planner output is free text; it is
// parsed into structured days before anything touches storage.
func (a *App) ItinerariesCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req itineraryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.City = strings.TrimSpace(req.City)
	if req.City == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "city required")
		return
	}

	tier := a.currentTier(r)
	features := domain.TierFeatures(tier)
	if req.Days <= 0 {
		req.Days = 3
	}
	if req.Days > features.MaxDays {
		req.Days = features.MaxDays
	}
	count, err := a.Itineraries.CountForUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("count itineraries failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check quota")
		return
	}
	if count >= features.MaxItineraries {
		a.error(w, http.StatusForbidden, "quota_exceeded", "itinerary limit reached for plan")
		return
	}

	plan, err := a.Planner.Plan(r.Context(), prompt.PlanRequest{
		City:      req.City,
		Country:   req.Country,
		Days:      req.Days,
		Interests: req.Interests,
		Locale:    middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("city", req.City).Msg("planner failed")
		a.error(w, http.StatusBadGateway, "planner_failed", "could not generate itinerary")
		return
	}

	days := itinerary.Parse(plan.Text)
	if len(days) == 0 {
		days = []domain.Day{{
			Number:     1,
			Title:      "Day 1",
			Activities: []domain.Activity{{Description: "Explore " + req.City}},
		}}
	}
	if len(days) > req.Days {
		days = days[:req.Days]
	}

	title := plan.Title
	if title == "" {
		title = fmt.Sprintf("%d days in %s", len(days), req.City)
	}
	it := &domain.Itinerary{
		UserID:    userID,
		City:      req.City,
		Country:   req.Country,
		Title:     title,
		Interests: req.Interests,
		Days:      days,
	}
	if err := a.Itineraries.Create(r.Context(), it); err != nil {
		a.Logger.Error().Err(err).Msg("create itinerary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save itinerary")
		return
	}

	if a.Warmer != nil {
		go a.warmSlides(*it, tier)
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success":   true,
		"itinerary": it,
		"planner":   plan.Provider,
	})
}

func (a *App) ItinerariesList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Itineraries.ListForUser(r.Context(), userID, 50)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list itineraries failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list itineraries")
		return
	}
	if items == nil {
		items = []domain.Itinerary{}
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "itineraries": items})
}

func (a *App) ItinerariesGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	it, err := a.Itineraries.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "itinerary not found")
			return
		}
		a.Logger.Error().Err(err).Msg("get itinerary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load itinerary")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "itinerary": it})
}

func (a *App) ItinerariesDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Itineraries.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "itinerary not found")
			return
		}
		a.Logger.Error().Err(err).Msg("delete itinerary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete itinerary")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}
