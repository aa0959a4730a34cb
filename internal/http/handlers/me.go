package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
)

type meResponse struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Locale          string          `json:"locale"`
	Tier            domain.Tier     `json:"tier"`
	Features        domain.Features `json:"features"`
	ItinerariesUsed int             `json:"itineraries_used"`
}

// Me returns the authenticated profile plus its feature matrix. A token for
// a user that was never persisted still answers, built from the claims.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	u, err := a.Users.Get(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("load user failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}
		u = &domain.User{
			ID:     userID,
			Locale: middleware.LocaleFromContext(r.Context()),
			Tier:   domain.NormalizeTier(middleware.PlanFromContext(r.Context())),
		}
		// Persist the claims-derived profile so later requests hit a real
		// row. Failure is non-fatal, the response is served either way.
		if err := a.Users.Upsert(r.Context(), u); err != nil {
			a.Logger.Warn().Err(err).Str("user_id", userID).Msg("persist claims profile failed")
		}
	}
	used, err := a.Itineraries.CountForUser(r.Context(), userID)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("count itineraries failed")
		used = 0
	}
	a.json(w, http.StatusOK, meResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Locale:          u.Locale,
		Tier:            u.Tier,
		Features:        domain.TierFeatures(u.Tier),
		ItinerariesUsed: used,
	})
}
