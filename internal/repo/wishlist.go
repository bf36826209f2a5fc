package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// WishlistRepo stores favourited items. Each user holds at most one entry per item.
type WishlistRepo interface {
	// List returns the user's entries, newest first, with items hydrated.
	List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error)

	// Add favourites an item. Adding an item that is already present returns
	// the existing entry unchanged.
	Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error)

	// Remove deletes the entry whose ID or item ID equals id.
	// Returns domain.ErrNotFound if the user has no such entry.
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

type pgWishlistRepo struct {
	db db
}

// NewWishlistRepo constructs a WishlistRepo backed by the provided db connection.
func NewWishlistRepo(db db) WishlistRepo {
	return &pgWishlistRepo{db: db}
}

const wishlistSelect = `
	SELECT w.id, w.item_type, w.added_at,
	       i.id, i.type, i.name, i.category, i.location, i.images, i.rating
	FROM wishlist_entries w
	JOIN items i ON i.id = w.item_id`

func (r *pgWishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error) {
	q := wishlistSelect + `
		WHERE w.user_id = @user_id
		ORDER BY w.added_at DESC, w.id`

	entries, err := r.query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.WishlistRepo.List: %w", err)
	}
	return entries, nil
}

// Add upserts on (user_id, item_id). The no-op DO UPDATE makes RETURNING
// yield the existing row on conflict.
func (r *pgWishlistRepo) Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error) {
	const ins = `
		INSERT INTO wishlist_entries (user_id, item_id, item_type)
		VALUES (@user_id, @item_id, @item_type)
		ON CONFLICT (user_id, item_id) DO UPDATE SET item_type = wishlist_entries.item_type
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, ins, pgx.NamedArgs{
		"user_id":   userID,
		"item_id":   itemID,
		"item_type": string(kind),
	}).Scan(&id)
	if err != nil {
		return domain.WishlistEntry{}, fmt.Errorf("repo.WishlistRepo.Add: %w", mapError(err))
	}

	entries, err := r.query(ctx, wishlistSelect+` WHERE w.id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return domain.WishlistEntry{}, fmt.Errorf("repo.WishlistRepo.Add: %w", err)
	}
	if len(entries) == 0 {
		return domain.WishlistEntry{}, fmt.Errorf("repo.WishlistRepo.Add: %w", domain.ErrNotFound)
	}
	return entries[0], nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID, id uuid.UUID) error {
	const q = `
		DELETE FROM wishlist_entries
		WHERE user_id = @user_id AND (id = @id OR item_id = @id)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.WishlistRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.WishlistRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgWishlistRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.WishlistEntry, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.WishlistEntry{}
	var ids []uuid.UUID
	for rows.Next() {
		var e domain.WishlistEntry
		it := &e.Item
		err := rows.Scan(&e.ID, &e.Kind, &e.AddedAt,
			&it.ID, &it.Type, &it.Name, &it.Category, &it.Location, &it.Images, &it.Rating)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(ids) == 0 {
		return entries, nil
	}

	opts, err := loadOptions(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Item.Options = nonNil(opts[entries[i].Item.ID])
	}
	return entries, nil
}
