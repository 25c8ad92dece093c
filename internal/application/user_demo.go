package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

// DemoPassword is the shared password of every seeded demo account.
const DemoPassword = "Password123!"

type DemoBatch struct {
	Count           int
	BatchID         string
	DefaultPassword string
}

// CreateDemoUsers inserts count demo accounts in one transaction, all or nothing.
func (s *UserService) CreateDemoUsers(ctx context.Context, count int) (DemoBatch, error) {
	if count <= 0 {
		return DemoBatch{}, apperr.BadRequest("Count must be a positive number")
	}
	if count > s.demoMaxCount {
		return DemoBatch{}, apperr.BadRequest(fmt.Sprintf("Cannot seed more than %d users at a time", s.demoMaxCount))
	}

	hash, err := helpers.HashPassword(DemoPassword)
	if err != nil {
		return DemoBatch{}, apperr.Internal(err)
	}
	batch := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	users := make([]*entity.User, count)
	for i := range users {
		n := i + 1
		users[i] = &entity.User{
			ID:        uuid.NewString(),
			Email:     fmt.Sprintf("demo_%s_%d@%s", batch, n, s.demoDomain),
			Password:  hash,
			FirstName: "Demo",
			LastName:  fmt.Sprintf("User %s-%d", batch, n),
			Role:      entity.RoleUser,
		}
	}

	created, err := s.users.CreateBatch(ctx, users)
	if err != nil {
		s.logger.WithError(err).WithField("batch", batch).Error("demo batch creation failed")
		return DemoBatch{}, apperr.Wrap(apperr.KindConflict, "Batch creation failed, possible duplicate email.", err)
	}
	demoSeeded.Add(int64(created))
	s.logger.WithFields(logrus.Fields{"batch": batch, "count": created}).Info("demo users created")
	return DemoBatch{Count: created, BatchID: batch, DefaultPassword: DemoPassword}, nil
}

// EnsureAdmin creates the bootstrap admin account when no active user holds email.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, apperr.BadRequest("Admin email and password are required")
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.logger.WithField("email", email).Warn("bootstrap admin email belongs to a non-admin user")
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, apperr.Internal(err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return false, apperr.Internal(err)
	}
	u := &entity.User{
		Email:     email,
		Password:  hash,
		FirstName: "Default",
		LastName:  "Admin",
		Role:      entity.RoleAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return false, nil
		}
		return false, apperr.Internal(err)
	}
	s.logger.WithField("email", email).Info("admin user created")
	s.indexUser(ctx, u.Sanitize())
	return true, nil
}
