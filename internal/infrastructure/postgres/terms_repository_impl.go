package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

type TermsRepository struct {
	db DB
}

func NewTermsRepository(db DB) *TermsRepository {
	return &TermsRepository{db: db}
}

func (r *TermsRepository) Create(ctx context.Context, t *entity.Terms) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO terms (author, content)
		VALUES ($1, $2)
		RETURNING id, version, created_at, updated_at
	`, t.Author, t.Content)
	if err := row.Scan(&t.ID, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("insert terms: %w", err)
	}
	return nil
}

// GetByID treats ids that are not UUIDs as missing rather than as a storage error.
func (r *TermsRepository) GetByID(ctx context.Context, id string) (*entity.Terms, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	t := &entity.Terms{}
	err := r.db.QueryRow(ctx, `
		SELECT id, author, content, version, created_at, updated_at
		FROM terms
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Author, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TermsRepository) List(ctx context.Context) ([]*entity.Terms, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, author, content, version, created_at, updated_at
		FROM terms
		ORDER BY version
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Terms, 0)
	for rows.Next() {
		t := &entity.Terms{}
		if err := rows.Scan(&t.ID, &t.Author, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ repository.TermsRepository = (*TermsRepository)(nil)
