// Package users declares the repository contract for User records and its
// PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/userapp/internal/server/models"
)

// Repository stores User records. Lookups by username are exact and
// case-sensitive; a missing row yields common.ErrorNotFound.
type Repository interface {
	// Create inserts user and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns the first user (lowest id) with the given username.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)

	// List returns every user ordered by id.
	List(ctx context.Context) ([]*models.User, error)

	// Update overwrites every mutable column of the row identified by user.ID.
	Update(ctx context.Context, user *models.User) (*models.User, error)

	// Delete removes the row with the given id.
	Delete(ctx context.Context, id int64) error
}
