package profiles

import (
	"context"

	"github.com/dmitrijs2005/finapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Update overwrites only the fields whose pointers are non-nil and
	// returns the resulting row.
	Update(ctx context.Context, userID string, fullName, avatarKey *string) (*models.Profile, error)
}
