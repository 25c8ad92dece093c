package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

// TermsRepository stores append-only terms documents.
type TermsRepository interface {
	// Create fills in the storage-assigned ID, Version and timestamps.
	Create(ctx context.Context, t *entity.Terms) error
	GetByID(ctx context.Context, id string) (*entity.Terms, error)
	List(ctx context.Context) ([]*entity.Terms, error)
}
