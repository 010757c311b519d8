// Package sessions declares the repository contract for Session records and
// its PostgreSQL and in-memory implementations.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/userapp/internal/server/models"
)

// Repository defines operations for issuing, finding and revoking sessions.
type Repository interface {
	// Create inserts s and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, s *models.Session) (*models.Session, error)

	// FindByUserName returns the oldest session for userName, or
	// common.ErrorNotFound when there is none.
	FindByUserName(ctx context.Context, userName string) (*models.Session, error)

	// Delete removes a session by id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id int64) error

	// List returns every session ordered by id.
	List(ctx context.Context) ([]*models.Session, error)
}
