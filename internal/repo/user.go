package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// UserRepo defines the persistence operations for accounts.
type UserRepo interface {
	// Create inserts a user. Returns domain.ErrConflict if the email is taken.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByEmail looks a user up by (already normalised) email.
	// Returns domain.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, email, name, password_hash, created_at`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, name, password_hash)
		VALUES (@email, @name, @password_hash)
		RETURNING ` + userColumns

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"email":         u.Email,
		"name":          u.Name,
		"password_hash": u.PasswordHash,
	}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", mapError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
