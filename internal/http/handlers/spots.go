package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/middleware"
)

type spotDTO struct {
	domain.Spot
	BookingURL string `json:"booking_url,omitempty"`
}

// SpotsByCity lists curated spots for a city. Booking links are localized to
// the visitor's GeoIP country so affiliate markets line up.
func (a *App) SpotsByCity(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "city required")
		return
	}
	spots, err := a.Spots.ListByCity(r.Context(), city, 20)
	if err != nil {
		a.Logger.Error().Err(err).Str("city", city).Msg("list spots failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list spots")
		return
	}

	country := middleware.CountryFromContext(r.Context())
	dtos := make([]spotDTO, 0, len(spots))
	for _, s := range spots {
		dtos = append(dtos, spotDTO{Spot: s, BookingURL: s.BookingURL(country)})
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "spots": dtos})
}

type spotCreateRequest struct {
	City        string `json:"city"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	BookingSlug string `json:"bookingSlug"`
}

// SpotsCreate adds a spot to the curated catalog.
func (a *App) SpotsCreate(w http.ResponseWriter, r *http.Request) {
	if a.currentUserID(r) == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req spotCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	spot := &domain.Spot{
		City:        strings.TrimSpace(req.City),
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(strings.ToLower(req.Category)),
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		BookingSlug: strings.TrimSpace(req.BookingSlug),
	}
	if spot.City == "" || spot.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "city and name required")
		return
	}
	if spot.Category == "" {
		spot.Category = "attraction"
	}
	if err := a.Spots.Insert(r.Context(), spot); err != nil {
		a.Logger.Error().Err(err).Str("city", spot.City).Msg("insert spot failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save spot")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"success": true, "spot": spot})
}
