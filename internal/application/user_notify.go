package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/pkg/mailer"
)

const sideEffectTimeout = 3 * time.Second

// Side effects below never fail the calling operation; failures are logged.

func (s *UserService) indexUser(ctx context.Context, u entity.SafeUser) {
	if s.index == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.index.Index(c, u); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}

func (s *UserService) unindexUser(ctx context.Context, id string) {
	if s.index == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.index.Delete(c, id); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Warn("search unindex failed")
	}
}

func (s *UserService) enqueueEmail(ctx context.Context, template string, u *entity.User, data map[string]any) {
	if s.jobs == nil {
		return
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.jobs.PublishJSON(c, job); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Warn("enqueue email failed")
	}
}
