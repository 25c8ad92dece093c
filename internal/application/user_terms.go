package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

// resolveTerms validates a terms acceptance and returns the terms id to store,
// or nil when nothing changes. The new and current documents are fetched concurrently.
// A storage failure in either fetch wins; otherwise the checks run in a fixed order:
// new document missing, current document missing, version not newer.
func (s *UserService) resolveTerms(ctx context.Context, u *entity.User, newID *string) (*string, error) {
	if newID == nil || (u.TermsID != nil && *u.TermsID == *newID) {
		return nil, nil
	}
	if strings.TrimSpace(*newID) == "" {
		return nil, apperr.BadRequest("Term ID cannot be empty")
	}

	var next, current *entity.Terms
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.lookupTerms(gctx, *newID)
		next = t
		return err
	})
	if u.TermsID != nil {
		currentID := *u.TermsID
		g.Go(func() error {
			t, err := s.lookupTerms(gctx, currentID)
			current = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}

	if next == nil {
		return nil, apperr.NotFound(fmt.Sprintf("Terms with ID %s not found", *newID))
	}
	if u.TermsID != nil && current == nil {
		return nil, apperr.NotFound(fmt.Sprintf("User's current Terms (ID: %s) not found in database", *u.TermsID))
	}
	if current != nil && next.Version <= current.Version {
		return nil, apperr.BadRequest(fmt.Sprintf("The new terms (v%d) are not newer than the current terms (v%d).", next.Version, current.Version))
	}
	id := next.ID
	return &id, nil
}

// lookupTerms returns nil without error when the document does not exist.
func (s *UserService) lookupTerms(ctx context.Context, id string) (*entity.Terms, error) {
	t, err := s.terms.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return t, err
}
