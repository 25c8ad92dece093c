package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

func TestUserRepository_SoftDeletedExcludedAndEmailReusable(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &entity.User{Email: "ann@x.com", FirstName: "Ann", LastName: "Lee"}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{Email: "ann@x.com"}), repository.ErrDuplicateEmail)

	_, err := repo.SoftDelete(ctx, u.ID, time.Now())
	require.NoError(t, err)

	_, err = repo.GetByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, total, err := repo.List(ctx, repository.UserFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	// a released address can be registered again
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "ann@x.com"}))
}

func TestUserRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.User{Email: fmt.Sprintf("u%d@x.com", i), FirstName: "Ann", LastName: fmt.Sprintf("Lee%d", i)}))
	}
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "bob@x.com", FirstName: "Bob", LastName: "Lee"}))

	users, total, err := repo.List(ctx, repository.UserFilter{FirstName: "aN", Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, users, 2)
	assert.Equal(t, "u2@x.com", users[0].Email)
	assert.Equal(t, "u3@x.com", users[1].Email)

	users, _, err = repo.List(ctx, repository.UserFilter{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_CreateBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "taken@x.com"}))

	n, err := repo.CreateBatch(ctx, []*entity.User{{Email: "new@x.com"}, {Email: "taken@x.com"}})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Zero(t, n)

	_, err = repo.GetByEmail(ctx, "new@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpdateEmailCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	a := &entity.User{Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "b@x.com"}))

	taken := "b@x.com"
	_, err := repo.Update(ctx, a.ID, repository.UserChanges{Email: &taken})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	first := "Anna"
	got, err := repo.Update(ctx, a.ID, repository.UserChanges{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
}

func TestTermsRepository_VersionsIncrease(t *testing.T) {
	ctx := context.Background()
	repo := NewTermsRepository()

	first := &entity.Terms{Author: "legal", Content: "one"}
	second := &entity.Terms{Author: "legal", Content: "two"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Less(t, first.Version, second.Version)

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Content)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}
