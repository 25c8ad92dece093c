package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

type TermsRepository struct {
	mu      sync.RWMutex
	terms   []entity.Terms
	version int64
}

func NewTermsRepository() *TermsRepository {
	return &TermsRepository{}
}

func (r *TermsRepository) Create(_ context.Context, t *entity.Terms) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version++
	now := time.Now()
	t.ID = uuid.NewString()
	t.Version = r.version
	t.CreatedAt, t.UpdatedAt = now, now
	r.terms = append(r.terms, *t)
	return nil
}

func (r *TermsRepository) GetByID(_ context.Context, id string) (*entity.Terms, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.terms {
		if t.ID == id {
			c := t
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// List returns terms in version order, which is insertion order here.
func (r *TermsRepository) List(_ context.Context) ([]*entity.Terms, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Terms, 0, len(r.terms))
	for i := range r.terms {
		c := r.terms[i]
		out = append(out, &c)
	}
	return out, nil
}

var _ repository.TermsRepository = (*TermsRepository)(nil)
