package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// OrderRepo persists checkouts.
type OrderRepo interface {
	// CreateFromCart inserts the order and deletes the cart lines it was built
	// from in one transaction. If any of lineIDs is no longer in the cart the
	// transaction is rolled back and domain.ErrConflict is returned.
	CreateFromCart(ctx context.Context, order domain.Order, lineIDs []uuid.UUID) (domain.Order, error)
}

type pgOrderRepo struct {
	db db
}

// NewOrderRepo constructs an OrderRepo backed by the provided db connection.
func NewOrderRepo(db db) OrderRepo {
	return &pgOrderRepo{db: db}
}

func (r *pgOrderRepo) CreateFromCart(ctx context.Context, order domain.Order, lineIDs []uuid.UUID) (domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("repo.OrderRepo.CreateFromCart: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	const ins = `
		INSERT INTO orders (user_id, currency, total, lines)
		VALUES (@user_id, @currency, @total, @lines)
		RETURNING id, user_id, currency, total, lines, created_at`

	var out domain.Order
	err = tx.QueryRow(ctx, ins, pgx.NamedArgs{
		"user_id":  order.UserID,
		"currency": order.Currency,
		"total":    order.Total,
		"lines":    order.Lines,
	}).Scan(&out.ID, &out.UserID, &out.Currency, &out.Total, &out.Lines, &out.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("repo.OrderRepo.CreateFromCart: insert: %w", mapError(err))
	}

	const del = `DELETE FROM cart_lines WHERE user_id = @user_id AND id = ANY(@ids)`
	tag, err := tx.Exec(ctx, del, pgx.NamedArgs{"user_id": order.UserID, "ids": lineIDs})
	if err != nil {
		return domain.Order{}, fmt.Errorf("repo.OrderRepo.CreateFromCart: clear cart: %w", err)
	}
	if tag.RowsAffected() != int64(len(lineIDs)) {
		return domain.Order{}, fmt.Errorf("repo.OrderRepo.CreateFromCart: cart changed: %w", domain.ErrConflict)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("repo.OrderRepo.CreateFromCart: commit: %w", err)
	}
	return out, nil
}
