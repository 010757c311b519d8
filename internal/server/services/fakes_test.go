package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/userapp/internal/lockx"
	"github.com/dmitrijs2005/userapp/internal/server/models"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/users"
)

var errDB = errors.New("db down")

// fakeManager wraps the in-memory manager and lets a test swap in failing
// repositories or observe transactions.
type fakeManager struct {
	*repomanager.MemoryRepositoryManager

	users    users.Repository
	sessions sessions.Repository

	txCalls int
}

func newFakeManager() *fakeManager {
	return &fakeManager{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
}

func (f *fakeManager) Users() users.Repository {
	if f.users != nil {
		return f.users
	}
	return f.MemoryRepositoryManager.Users()
}

func (f *fakeManager) Sessions() sessions.Repository {
	if f.sessions != nil {
		return f.sessions
	}
	return f.MemoryRepositoryManager.Sessions()
}

func (f *fakeManager) WithTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	f.txCalls++
	return fn(ctx, f)
}

type fakeUsersRepo struct {
	users.Repository

	getErr    error
	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetUserByLogin(ctx, userName)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.Repository.Update(ctx, u)
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.Delete(ctx, id)
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.List(ctx)
}

type fakeSessionsRepo struct {
	sessions.Repository

	findErr   error
	deleteErr error
	createErr error
	listErr   error
}

func (f *fakeSessionsRepo) FindByUserName(ctx context.Context, userName string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.FindByUserName(ctx, userName)
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.Delete(ctx, id)
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, s)
}

func (f *fakeSessionsRepo) List(ctx context.Context) ([]*models.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.List(ctx)
}

// recordingLocker remembers every key it was asked for.
type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (r *recordingLocker) Lock(_ context.Context, key string) (lockx.Unlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.keys = append(r.keys, key)
	return func() {}, nil
}
