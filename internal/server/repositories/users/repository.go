package users

import (
	"context"

	"github.com/dmitrijs2005/finapp/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email returns
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
