package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, nullString(string(u.Role)), u.CreatedAt)
	return mapError(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var (
		u    entity.User
		role sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role, created_at FROM users WHERE "+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.Role = entity.Role(fromNull(role))
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return expectOne(r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}
