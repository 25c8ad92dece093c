package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/repository"
)

const userColumns = `id, email, password, first_name, last_name, role, terms_id, deleted_at, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &role,
		&u.TermsID, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	if pgCode(err) == codeUniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role, terms_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, string(u.Role), u.TermsID)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", mapUserErr(err))
	}
	return nil
}

var copyUserColumns = []string{"id", "email", "password", "first_name", "last_name", "role", "created_at", "updated_at"}

// CreateBatch copies all users in one transaction; nothing is written if any row fails.
func (r *UserRepository) CreateBatch(ctx context.Context, users []*entity.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(users))
	now := time.Now().UTC()
	for i, u := range users {
		if u.ID == "" {
			return 0, errors.New("batch user without id")
		}
		if u.Role == "" {
			u.Role = entity.RoleUser
		}
		u.CreatedAt, u.UpdatedAt = now, now
		rows[i] = []any{u.ID, u.Email, u.Password, u.FirstName, u.LastName, string(u.Role), now, now}
	}

	var n int64
	err := withTx(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		n, err = tx.CopyFrom(ctx, pgx.Identifier{"users"}, copyUserColumns, pgx.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("copy users: %w", mapUserErr(err))
	}
	return int(n), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`, email))
	if err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func userWhere(f repository.UserFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	var args []any
	if f.FirstName != "" {
		args = append(args, "%"+escapeLike(f.FirstName)+"%")
		conds = append(conds, "first_name ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.LastName != "" {
		args = append(args, "%"+escapeLike(f.LastName)+"%")
		conds = append(conds, "last_name ILIKE $"+strconv.Itoa(len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List reads the page and the total inside one repeatable-read snapshot so both agree.
func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	where, args := userWhere(f)
	var (
		users []*entity.User
		total int64
	)
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := withTx(ctx, r.db, opts, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count users: %w", err)
		}

		pageArgs := append(append([]any{}, args...), f.Limit, f.Offset)
		q := `SELECT ` + userColumns + ` FROM users` + where +
			` ORDER BY created_at, id LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		rows, err := tx.Query(ctx, q, pageArgs...)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update writes every non-nil change in a single statement.
func (r *UserRepository) Update(ctx context.Context, id string, ch repository.UserChanges) (*entity.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	add("first_name", ch.FirstName)
	add("last_name", ch.LastName)
	add("email", ch.Email)
	add("terms_id", ch.TermsID)

	u, err := scanUser(r.db.QueryRow(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+
		` WHERE id = $1 AND deleted_at IS NULL RETURNING `+userColumns, args...))
	if err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string, at time.Time) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns, id, at))
	if err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
