package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/server/models"
)

// MemoryRepository is the map-backed Repository used by the memory:// store.
type MemoryRepository struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]models.Session
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows: make(map[int64]models.Session),
		now:  time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	s.ID = r.seq
	s.CreatedAt = r.now().UTC()
	r.rows[s.ID] = *s

	return s, nil
}

func (r *MemoryRepository) FindByUserName(ctx context.Context, userName string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Session
	for _, row := range r.rows {
		if row.UserName != userName {
			continue
		}
		if found == nil || row.ID < found.ID {
			s := row
			found = &s
		}
	}

	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Session, 0, len(r.rows))
	for _, row := range r.rows {
		s := row
		result = append(result, &s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}
