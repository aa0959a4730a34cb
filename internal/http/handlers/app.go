package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/prompt"
	"server/internal/resolver"
	"server/internal/story"
)

// ItineraryStore is the persistence surface the handlers need for trips.
type ItineraryStore interface {
	Create(ctx context.Context, it *domain.Itinerary) error
	GetForUser(ctx context.Context, id, userID string) (*domain.Itinerary, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Itinerary, error)
	Delete(ctx context.Context, id, userID string) error
	CountForUser(ctx context.Context, userID string) (int, error)
}

// UserStore loads and saves accounts.
type UserStore interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) error
}

// SpotStore serves the curated local-spot catalog.
type SpotStore interface {
	ListByCity(ctx context.Context, city string, limit int) ([]domain.Spot, error)
	Insert(ctx context.Context, s *domain.Spot) error
}

// BackgroundResolver is the story-background cascade.
type BackgroundResolver interface {
	Resolve(ctx context.Context, req resolver.Request) resolver.Result
	Availability() resolver.Availability
}

// SlideWarmer pre-resolves slide backgrounds for an itinerary.
type SlideWarmer interface {
	Warm(ctx context.Context, it domain.Itinerary, tier domain.Tier, preferAI bool) int
}

type App struct {
	Logger      infra.Logger
	JWTSecret   string
	Itineraries ItineraryStore
	Users       UserStore
	Spots       SpotStore
	Backgrounds BackgroundResolver
	Renderer    *story.Renderer
	Warmer      SlideWarmer
	Planner     prompt.Planner
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"success": false,
		"error":   errorBody{Code: code, Message: message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// currentTier prefers the persisted account tier and falls back to the token
// plan claim when the user row is missing, so a cold database never grants
// or denies the wrong features silently.
func (a *App) currentTier(r *http.Request) domain.Tier {
	if a.Users != nil {
		if u, err := a.Users.Get(r.Context(), a.currentUserID(r)); err == nil {
			return u.Tier
		}
	}
	return domain.NormalizeTier(middleware.PlanFromContext(r.Context()))
}
