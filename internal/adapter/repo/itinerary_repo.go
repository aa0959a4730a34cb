package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ItineraryRepositoryPG persists itineraries in PostgreSQL. The days column
// is jsonb and may carry historical shapes; rows are normalized through
// domain.NormalizeDays immediately on read so no other layer ever sees the
// raw payload.
type ItineraryRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewItineraryRepository constructs a new itinerary repository instance.
func NewItineraryRepository(sql infra.SQLExecutor) *ItineraryRepositoryPG {
	return &ItineraryRepositoryPG{sql: sql}
}

// Create persists a new itinerary and fills in its generated fields.
func (r *ItineraryRepositoryPG) Create(ctx context.Context, it *domain.Itinerary) error {
	daysJSON, err := json.Marshal(it.Days)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertItinerary,
		it.UserID, it.City, it.Country, it.Title, it.Interests, daysJSON)
	if err := row.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return fmt.Errorf("insert itinerary: %w", err)
	}
	return nil
}

// GetForUser loads one itinerary scoped to its owner.
func (r *ItineraryRepositoryPG) GetForUser(ctx context.Context, id, userID string) (*domain.Itinerary, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectItinerary, id, userID)
	it, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

// ListForUser returns the user's itineraries, newest first.
func (r *ItineraryRepositoryPG) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Itinerary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListItineraries, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// Delete removes an itinerary scoped to its owner.
func (r *ItineraryRepositoryPG) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteItinerary, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountForUser reports how many itineraries the user owns.
func (r *ItineraryRepositoryPG) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountItineraries, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanItinerary(row pgx.Row) (*domain.Itinerary, error) {
	var (
		it      domain.Itinerary
		rawDays []byte
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.City, &it.Country, &it.Title,
		&it.Interests, &rawDays, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	days, err := domain.NormalizeDays(rawDays)
	if err != nil {
		return nil, fmt.Errorf("normalize days for %s: %w", it.ID, err)
	}
	it.Days = days
	return &it, nil
}
