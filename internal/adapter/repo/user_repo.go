package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// UserRepositoryPG reads and writes user accounts in PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository constructs a new user repository instance.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Get loads a user by id.
func (r *UserRepositoryPG) Get(ctx context.Context, id string) (*domain.User, error) {
	var (
		u    domain.User
		tier string
	)
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUser, id)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Locale, &tier, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Tier = domain.NormalizeTier(tier)
	return &u, nil
}

// Upsert creates the account on first sign-in and refreshes profile fields
// afterwards. The tier is only set on insert; plan changes go through billing.
func (r *UserRepositoryPG) Upsert(ctx context.Context, u *domain.User) error {
	var id string
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertUser, u.ID, u.Email, u.Name, u.Locale, string(u.Tier))
	if err := row.Scan(&id); err != nil {
		return err
	}
	u.ID = id
	return nil
}
