package repomanager

import (
	"context"

	"github.com/dmitrijs2005/userapp/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps both tables in process memory. Nothing
// survives a restart.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository       { return m.users }
func (m *MemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

// WithTx has no rollback here: statements already applied stay applied
// when fn fails.
func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return fn(ctx, m)
}
