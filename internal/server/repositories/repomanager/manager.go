// Package repomanager vends the repositories of one durable store and the
// hooks the application needs around them (migrations, transactions, health).
package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/userapp/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory store.
const MemoryDSN = "memory://"

// Repositories groups the per-table repositories bound to one handle
// (the pool, or a transaction).
type Repositories interface {
	Users() users.Repository
	Sessions() sessions.Repository
}

// RepositoryManager is the storage-engine handle injected into services.
type RepositoryManager interface {
	Repositories

	RunMigrations(ctx context.Context) error

	// WithTx runs fn with repositories bound to one transaction. Stores
	// without transactions call fn with their regular repositories.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Open returns the manager for dsn: MemoryDSN gives the in-memory store,
// anything else is handed to the pgx driver.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, MemoryDSN) || dsn == "memory" {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
