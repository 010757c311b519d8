package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/server/models"
)

// MemoryRepository keeps users in a map guarded by a mutex. Every call is
// atomic on its own; sequences of calls are not, same as the SQL store
// outside a transaction.
type MemoryRepository struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]models.User
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows: make(map[int64]models.User),
		now:  time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	user.ID = r.seq
	user.CreatedAt = r.now().UTC()
	r.rows[user.ID] = *user

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.User
	for _, row := range r.rows {
		if row.UserName != userName {
			continue
		}
		if found == nil || row.ID < found.ID {
			u := row
			found = &u
		}
	}

	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.rows))
	for _, row := range r.rows {
		u := row
		result = append(result, &u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	user.CreatedAt = current.CreatedAt
	r.rows[user.ID] = *user

	return user, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)

	return nil
}
