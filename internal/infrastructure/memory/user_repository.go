// Package memory holds process-local repositories used with STORAGE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*entity.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{now: time.Now}
}

func clone(u *entity.User) *entity.User {
	c := *u
	if u.TermsID != nil {
		id := *u.TermsID
		c.TermsID = &id
	}
	if u.DeletedAt != nil {
		at := *u.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}

// activeByEmail must be called with mu held.
func (r *UserRepository) activeByEmail(email string) *entity.User {
	for _, u := range r.users {
		if u.DeletedAt == nil && u.Email == email {
			return u
		}
	}
	return nil
}

func (r *UserRepository) activeByID(id string) *entity.User {
	for _, u := range r.users {
		if u.DeletedAt == nil && u.ID == id {
			return u
		}
	}
	return nil
}

func (r *UserRepository) insert(u *entity.User, now time.Time) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	u.CreatedAt, u.UpdatedAt = now, now
	r.users = append(r.users, clone(u))
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeByEmail(u.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	r.insert(u, r.now())
	return nil
}

func (r *UserRepository) CreateBatch(_ context.Context, users []*entity.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, dup := seen[u.Email]; dup || r.activeByEmail(u.Email) != nil {
			return 0, repository.ErrDuplicateEmail
		}
		seen[u.Email] = struct{}{}
	}
	now := r.now()
	for _, u := range users {
		r.insert(u, now)
	}
	return len(users), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.activeByEmail(email); u != nil {
		return clone(u), nil
	}
	return nil, repository.ErrNotFound
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *UserRepository) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.User
	for _, u := range r.users {
		if u.DeletedAt == nil && containsFold(u.FirstName, f.FirstName) && containsFold(u.LastName, f.LastName) {
			matched = append(matched, u)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := min(max(f.Offset, 0), len(matched))
	end := len(matched)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(matched))
	}
	out := make([]*entity.User, 0, end-start)
	for _, u := range matched[start:end] {
		out = append(out, clone(u))
	}
	return out, total, nil
}

func (r *UserRepository) Update(_ context.Context, id string, ch repository.UserChanges) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.activeByID(id)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	if ch.Email != nil && *ch.Email != u.Email {
		if other := r.activeByEmail(*ch.Email); other != nil {
			return nil, repository.ErrDuplicateEmail
		}
	}
	if ch.FirstName != nil {
		u.FirstName = *ch.FirstName
	}
	if ch.LastName != nil {
		u.LastName = *ch.LastName
	}
	if ch.Email != nil {
		u.Email = *ch.Email
	}
	if ch.TermsID != nil {
		tid := *ch.TermsID
		u.TermsID = &tid
	}
	u.UpdatedAt = r.now()
	return clone(u), nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id string, at time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.activeByID(id)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	u.DeletedAt = &at
	u.UpdatedAt = at
	return clone(u), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
