// Package profiles provides a PostgreSQL-backed repository for the
// user-editable account profile.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finapp/internal/common"
	"github.com/dmitrijs2005/finapp/internal/dbx"
	"github.com/dmitrijs2005/finapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, avatar_key)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, profile.UserID, profile.FullName, profile.AvatarKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, full_name, avatar_key
		FROM profiles
		WHERE user_id = $1
	`
	profile := &models.Profile{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&profile.UserID, &profile.FullName, &profile.AvatarKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, fullName, avatarKey *string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name  = COALESCE($2, full_name),
		    avatar_key = COALESCE($3, avatar_key),
		    updated_at = now()
		WHERE user_id = $1
		RETURNING user_id, full_name, avatar_key
	`
	profile := &models.Profile{}
	if err := r.db.QueryRowContext(ctx, query, userID, fullName, avatarKey).Scan(&profile.UserID, &profile.FullName, &profile.AvatarKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}
