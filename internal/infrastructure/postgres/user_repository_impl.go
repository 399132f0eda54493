package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "photo", "role", "active",
	"password_changed_at", "password_reset_token", "password_reset_expires",
	"created_at", "updated_at",
}

// Columns that must never appear in an API response, however the read was
// shaped.
var userHidden = []string{"password_hash", "password_reset_token", "password_reset_expires"}

type UserRepository struct {
	collection[entity.User]
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{collection: newCollection[entity.User](pool, "users", userColumns, userHidden...)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, photo, role, active)
		VALUES ($1, lower($2), $3, $4, $5, true)
		RETURNING id, active, created_at, updated_at
	`, u.Name, u.Email, u.PasswordHash, u.Photo, u.Role)
	return row.Scan(&u.ID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
}

// scanFull reads every column, credentials included. Only the auth paths use
// it; responses marshal through entity.User which hides those fields.
func (r *UserRepository) scanFull(ctx context.Context, where string, args ...any) (*entity.User, error) {
	sqlStr := fmt.Sprintf(`
		SELECT id, name, email, password_hash, photo, role, active,
		       password_changed_at, password_reset_token, password_reset_expires,
		       created_at, updated_at
		FROM users WHERE %s
	`, where)
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[entity.User])
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanFull(ctx, "email = lower($1) AND active", email)
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanFull(ctx, "id = $1 AND active", id)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return r.scanFull(ctx, "password_reset_token = $1 AND password_reset_expires > $2 AND active", digest, now)
}
