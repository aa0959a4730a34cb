package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// SpotRepositoryPG serves the curated local-spot catalog from PostgreSQL.
type SpotRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSpotRepository constructs a new spot repository instance.
func NewSpotRepository(sql infra.SQLExecutor) *SpotRepositoryPG {
	return &SpotRepositoryPG{sql: sql}
}

// ListByCity returns curated spots for a city, alphabetical by name.
func (r *SpotRepositoryPG) ListByCity(ctx context.Context, city string, limit int) ([]domain.Spot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListSpotsByCity, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []domain.Spot
	for rows.Next() {
		var s domain.Spot
		if err := rows.Scan(&s.ID, &s.City, &s.Name, &s.Category,
			&s.Description, &s.ImageURL, &s.BookingSlug, &s.CreatedAt); err != nil {
			return nil, err
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}

// Insert adds a curated spot to the catalog.
func (r *SpotRepositoryPG) Insert(ctx context.Context, s *domain.Spot) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertSpot,
		s.City, s.Name, s.Category, s.Description, s.ImageURL, s.BookingSlug)
	return row.Scan(&s.ID, &s.CreatedAt)
}
