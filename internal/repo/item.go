package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// ItemRepo reads the catalog. Writes happen through migrations.
type ItemRepo interface {
	// GetByID returns one item with its options ordered by position.
	// Returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.BookableItem, error)

	// ListPaged returns one page of items matching f, ordered by name, and
	// the total number of matches.
	ListPaged(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) ([]domain.BookableItem, int64, error)
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

const itemColumns = `id, type, name, category, location, images, rating`

// GetByID retrieves an item by primary key, then its options.
func (r *pgItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BookableItem, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE id = @id`

	item, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.BookableItem{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", mapError(err))
	}

	opts, err := loadOptions(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return domain.BookableItem{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	item.Options = nonNil(opts[id])
	return item, nil
}

// ListPaged filters by type and a case-insensitive substring of name or location.
// COUNT(*) OVER () returns the total match count alongside each row.
func (r *pgItemRepo) ListPaged(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) ([]domain.BookableItem, int64, error) {
	q := `
		SELECT ` + itemColumns + `, COUNT(*) OVER ()
		FROM items
		WHERE (@type = '' OR type = @type)
		  AND (@q = '' OR name ILIKE '%' || @q || '%' OR location ILIKE '%' || @q || '%')
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"type":   string(f.Type),
		"q":      f.Query,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItemRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		items []domain.BookableItem
		ids   []uuid.UUID
		total int64
	)
	for rows.Next() {
		var it domain.BookableItem
		if err := rows.Scan(&it.ID, &it.Type, &it.Name, &it.Category, &it.Location, &it.Images, &it.Rating, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.ItemRepo.ListPaged: scan: %w", err)
		}
		items = append(items, it)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ItemRepo.ListPaged: rows: %w", err)
	}
	if len(items) == 0 {
		return []domain.BookableItem{}, 0, nil
	}

	opts, err := loadOptions(ctx, r.db, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItemRepo.ListPaged: %w", err)
	}
	for i := range items {
		items[i].Options = nonNil(opts[items[i].ID])
	}
	return items, total, nil
}

// loadOptions fetches the options of every item in ids, grouped by item ID.
// The wishlist and cart repos use it to hydrate joined items.
func loadOptions(ctx context.Context, q db, ids []uuid.UUID) (map[uuid.UUID][]domain.Option, error) {
	const sql = `
		SELECT item_id, option_id, name, price, tax, available, currency, features, images
		FROM item_options
		WHERE item_id = ANY(@ids)
		ORDER BY item_id, position, option_key`

	rows, err := q.Query(ctx, sql, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Option, len(ids))
	for rows.Next() {
		var (
			itemID uuid.UUID
			o      domain.Option
		)
		if err := rows.Scan(&itemID, &o.ID, &o.Name, &o.Price, &o.Tax, &o.Available, &o.Currency, &o.Features, &o.Images); err != nil {
			return nil, fmt.Errorf("options: scan: %w", err)
		}
		out[itemID] = append(out[itemID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("options: rows: %w", err)
	}
	return out, nil
}

// scanItem maps a single items row (without options) into a domain.BookableItem.
func scanItem(s scanner) (domain.BookableItem, error) {
	var it domain.BookableItem
	err := s.Scan(&it.ID, &it.Type, &it.Name, &it.Category, &it.Location, &it.Images, &it.Rating)
	return it, err
}

// nonNil returns s, or an empty slice when s is nil, so JSON encodes [] not null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
