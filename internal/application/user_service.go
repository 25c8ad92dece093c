package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-user-terms/pkg/mailer/templates"
	"github.com/oksasatya/go-ddd-user-terms/pkg/validation"
)

// UserIndex keeps a searchable copy of active users.
type UserIndex interface {
	Index(ctx context.Context, u entity.SafeUser) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.SafeUser, error)
}

// JobPublisher enqueues background jobs as JSON.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	users  repository.UserRepository
	terms  repository.TermsRepository
	jwt    *helpers.JWTManager
	logger logrus.FieldLogger

	index UserIndex
	jobs  JobPublisher
	brand mailtpl.Brand

	demoDomain   string
	demoMaxCount int

	now func() time.Time
}

type UserOption func(*UserService)

// WithSearchIndex mirrors user writes into idx and enables SearchUsers.
func WithSearchIndex(idx UserIndex) UserOption {
	return func(s *UserService) { s.index = idx }
}

// WithEmailJobs enqueues notification emails on pub.
func WithEmailJobs(pub JobPublisher, brand mailtpl.Brand) UserOption {
	return func(s *UserService) { s.jobs, s.brand = pub, brand }
}

func WithDemoSettings(domain string, maxCount int) UserOption {
	return func(s *UserService) {
		if domain != "" {
			s.demoDomain = domain
		}
		if maxCount > 0 {
			s.demoMaxCount = maxCount
		}
	}
}

func NewUserService(users repository.UserRepository, terms repository.TermsRepository, jwt *helpers.JWTManager, logger logrus.FieldLogger, opts ...UserOption) *UserService {
	s := &UserService{
		users:        users,
		terms:        terms,
		jwt:          jwt,
		logger:       logger,
		demoDomain:   "demo.example.com",
		demoMaxCount: 100,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxDemoCount is the largest batch CreateDemoUsers accepts.
func (s *UserService) MaxDemoCount() int { return s.demoMaxCount }

// activeUser looks up an active user by email, mapping a miss to NotFound.
func (s *UserService) activeUser(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (entity.SafeUser, error) {
	if err := in.validate(); err != nil {
		return entity.SafeUser{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return entity.SafeUser{}, apperr.Conflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return entity.SafeUser{}, apperr.Internal(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return entity.SafeUser{}, apperr.Internal(err)
	}
	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      entity.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return entity.SafeUser{}, apperr.Conflict("Email already exists")
		}
		return entity.SafeUser{}, apperr.Internal(err)
	}
	usersCreated.Add(1)

	safe := u.Sanitize()
	s.indexUser(ctx, safe)
	s.enqueueEmail(ctx, mailtpl.Welcome, u, mailtpl.NewWelcomeData(s.brand, u.FirstName, u.Email))
	return safe, nil
}

// LoginUser verifies credentials and issues an access token carrying the caller identity.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", apperr.BadRequest("Email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		helpers.BurnCompare(password)
		loginFailures.Add(1)
		return "", apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		loginFailures.Add(1)
		return "", apperr.Unauthorized("Invalid credentials")
	}

	token, _, err := s.jwt.GenerateAccessToken(entity.Identity{ID: u.ID, Email: u.Email, TermsID: u.TermsID, Role: u.Role})
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

type UserQuery struct {
	Email      string
	FirstName  string
	LastName   string
	Pagination *PaginationParams
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type UserPage struct {
	Data       []entity.SafeUser `json:"data"`
	Pagination PageInfo          `json:"pagination"`
}

// UsersResult holds either a single user (email lookup) or a page.
type UsersResult struct {
	User *entity.SafeUser
	Page *UserPage
}

func (s *UserService) GetUsers(ctx context.Context, q UserQuery) (UsersResult, error) {
	if q.Email != "" {
		u, err := s.activeUser(ctx, q.Email)
		if err != nil {
			return UsersResult{}, err
		}
		safe := u.Sanitize()
		return UsersResult{User: &safe}, nil
	}

	p := GetPagination(q.Pagination)
	users, total, err := s.users.List(ctx, repository.UserFilter{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Offset:    p.Skip,
		Limit:     p.Limit,
	})
	if err != nil {
		return UsersResult{}, apperr.Internal(err)
	}
	data := make([]entity.SafeUser, 0, len(users))
	for _, u := range users {
		data = append(data, u.Sanitize())
	}
	return UsersResult{Page: &UserPage{
		Data: data,
		Pagination: PageInfo{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: TotalPages(total, p.Limit),
		},
	}}, nil
}

// UpdateUser applies patch to the active user identified by email on behalf of caller.
func (s *UserService) UpdateUser(ctx context.Context, caller entity.Identity, email string, patch UserPatch) (entity.SafeUser, error) {
	if err := patch.checkKeys(); err != nil {
		return entity.SafeUser{}, err
	}
	forbidden := apperr.Forbidden("Forbidden: You can only update your own account")
	u, err := s.activeUser(ctx, email)
	if err != nil {
		// Non-admins get the same answer for unknown and foreign accounts.
		if apperr.Is(err, apperr.KindNotFound) && !caller.IsAdmin() {
			return entity.SafeUser{}, forbidden
		}
		return entity.SafeUser{}, err
	}
	if !caller.CanManage(u.ID) {
		return entity.SafeUser{}, forbidden
	}

	var ch repository.UserChanges
	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return entity.SafeUser{}, apperr.BadRequest("First name cannot be empty")
		}
		ch.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return entity.SafeUser{}, apperr.BadRequest("Last name cannot be empty")
		}
		ch.LastName = patch.LastName
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if !validation.IsEmail(*patch.Email) {
			return entity.SafeUser{}, apperr.BadRequest("Invalid email format")
		}
		if _, err := s.users.GetByEmail(ctx, *patch.Email); err == nil {
			return entity.SafeUser{}, apperr.Conflict("New email already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return entity.SafeUser{}, apperr.Internal(err)
		}
		ch.Email = patch.Email
	}

	termsID, err := s.resolveTerms(ctx, u, patch.TermID)
	if err != nil {
		return entity.SafeUser{}, err
	}
	ch.TermsID = termsID

	if ch.IsEmpty() {
		return u.Sanitize(), nil
	}
	updated, err := s.users.Update(ctx, u.ID, ch)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return entity.SafeUser{}, apperr.Conflict("New email already exists")
	case errors.Is(err, repository.ErrNotFound):
		return entity.SafeUser{}, apperr.NotFound("User not found")
	case err != nil:
		return entity.SafeUser{}, apperr.Internal(err)
	}

	safe := updated.Sanitize()
	s.indexUser(ctx, safe)
	return safe, nil
}

// DeleteUser soft-deletes the active user after verifying its password.
func (s *UserService) DeleteUser(ctx context.Context, email, password string) (entity.SafeUser, error) {
	u, err := s.activeUser(ctx, email)
	if err != nil {
		return entity.SafeUser{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return entity.SafeUser{}, apperr.Unauthorized("Invalid password")
	}

	at := s.now().UTC()
	deleted, err := s.users.SoftDelete(ctx, u.ID, at)
	if errors.Is(err, repository.ErrNotFound) {
		return entity.SafeUser{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return entity.SafeUser{}, apperr.Internal(err)
	}
	usersDeleted.Add(1)

	s.unindexUser(ctx, deleted.ID)
	s.enqueueEmail(ctx, mailtpl.AccountDeleted, deleted,
		mailtpl.NewAccountDeletedData(s.brand, deleted.FirstName, deleted.Email, mailtpl.WithTime(at)))
	return deleted.Sanitize(), nil
}

// SearchUsers runs a full-text query against the search index. Without an index it finds nothing.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]entity.SafeUser, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.BadRequest("Query parameter q is required")
	}
	if s.index == nil {
		return []entity.SafeUser{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	res, err := s.index.Search(ctx, q, size)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}
