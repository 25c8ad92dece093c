package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserFilter selects active users. Name filters are case-insensitive substrings combined with AND.
type UserFilter struct {
	FirstName string
	LastName  string
	Offset    int
	Limit     int
}

// UserChanges lists the columns to write; nil fields are left untouched.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
	TermsID   *string
}

func (c UserChanges) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Email == nil && c.TermsID == nil
}

// UserRepository defines the interface for user-related database operations.
// Every lookup only sees active (non-deleted) users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// CreateBatch inserts all users atomically.
	CreateBatch(ctx context.Context, users []*entity.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns one page and the total match count read from the same snapshot.
	List(ctx context.Context, f UserFilter) ([]*entity.User, int64, error)
	Update(ctx context.Context, id string, ch UserChanges) (*entity.User, error)
	SoftDelete(ctx context.Context, id string, at time.Time) (*entity.User, error)
}
