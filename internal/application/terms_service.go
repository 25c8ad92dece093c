package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-terms/pkg/validation"
)

// TermsArchiver keeps an immutable copy of each terms document outside the database.
type TermsArchiver interface {
	Archive(ctx context.Context, t *entity.Terms) (string, error)
}

type TermsService struct {
	repo    repository.TermsRepository
	archive TermsArchiver
	logger  logrus.FieldLogger
}

// NewTermsService builds the service; archive may be nil.
func NewTermsService(repo repository.TermsRepository, archive TermsArchiver, logger logrus.FieldLogger) *TermsService {
	return &TermsService{repo: repo, archive: archive, logger: logger}
}

type CreateTermInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (s *TermsService) CreateTerm(ctx context.Context, in CreateTermInput) (*entity.Terms, error) {
	var r validation.Result
	r.Check(strings.TrimSpace(in.Author) != "", "author", "Author is required")
	r.Check(strings.TrimSpace(in.Content) != "", "content", "Content is required")
	if !r.OK() {
		return nil, apperr.Invalid(r.Message(), r.Details())
	}

	t := &entity.Terms{Author: strings.TrimSpace(in.Author), Content: in.Content}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	termsCreated.Add(1)

	if s.archive != nil {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		if uri, err := s.archive.Archive(c, t); err != nil {
			s.logger.WithError(err).WithField("terms_id", t.ID).Warn("terms archive failed")
		} else {
			s.logger.WithFields(logrus.Fields{"terms_id": t.ID, "version": t.Version, "uri": uri}).Info("terms archived")
		}
	}
	return t, nil
}

// GetTerms lists every terms document ordered by version.
func (s *TermsService) GetTerms(ctx context.Context) ([]*entity.Terms, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}
