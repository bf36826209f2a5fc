package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// CartRepo stores cart lines. A user holds at most one line per item; adding
// the same item again increases that line's quantity.
//
// Line-addressing methods accept either the line ID or the item ID.
type CartRepo interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)

	// Add inserts a line or adds quantity to the existing line for the item.
	Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error)

	// Get returns domain.ErrNotFound if the user has no such line.
	Get(ctx context.Context, userID, id uuid.UUID) (domain.CartLine, error)

	// SetQuantity replaces a line's quantity and returns the updated line.
	SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error)

	// Delete removes a line. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type pgCartRepo struct {
	db db
}

// NewCartRepo constructs a CartRepo backed by the provided db connection.
func NewCartRepo(db db) CartRepo {
	return &pgCartRepo{db: db}
}

const cartSelect = `
	SELECT c.id, c.item_id, c.item_type, c.quantity, c.added_at,
	       i.id, i.type, i.name, i.category, i.location, i.images, i.rating
	FROM cart_lines c
	JOIN items i ON i.id = c.item_id`

func (r *pgCartRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	q := cartSelect + `
		WHERE c.user_id = @user_id
		ORDER BY c.added_at, c.id`

	lines, err := r.query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.CartRepo.List: %w", err)
	}
	return lines, nil
}

func (r *pgCartRepo) Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error) {
	const ins = `
		INSERT INTO cart_lines (user_id, item_id, item_type, quantity)
		VALUES (@user_id, @item_id, @item_type, @quantity)
		ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, ins, pgx.NamedArgs{
		"user_id":   userID,
		"item_id":   itemID,
		"item_type": string(itemType),
		"quantity":  quantity,
	}).Scan(&id)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.Add: %w", mapError(err))
	}

	line, err := r.Get(ctx, userID, id)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.Add: %w", err)
	}
	return line, nil
}

func (r *pgCartRepo) Get(ctx context.Context, userID, id uuid.UUID) (domain.CartLine, error) {
	q := cartSelect + `
		WHERE c.user_id = @user_id AND (c.id = @id OR c.item_id = @id)`

	lines, err := r.query(ctx, q, pgx.NamedArgs{"user_id": userID, "id": id})
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.Get: %w", err)
	}
	if len(lines) == 0 {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.Get: %w", domain.ErrNotFound)
	}
	return lines[0], nil
}

func (r *pgCartRepo) SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error) {
	const q = `
		UPDATE cart_lines
		SET quantity = @quantity
		WHERE user_id = @user_id AND (id = @id OR item_id = @id)
		RETURNING id`

	var lineID uuid.UUID
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":  userID,
		"id":       id,
		"quantity": quantity,
	}).Scan(&lineID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.SetQuantity: %w", mapError(err))
	}

	line, err := r.Get(ctx, userID, lineID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("repo.CartRepo.SetQuantity: %w", err)
	}
	return line, nil
}

func (r *pgCartRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `
		DELETE FROM cart_lines
		WHERE user_id = @user_id AND (id = @id OR item_id = @id)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.CartRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CartRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgCartRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.CartLine, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	var ids []uuid.UUID
	for rows.Next() {
		var (
			l  domain.CartLine
			it domain.BookableItem
		)
		err := rows.Scan(&l.ID, &l.ItemID, &l.ItemType, &l.Quantity, &l.AddedAt,
			&it.ID, &it.Type, &it.Name, &it.Category, &it.Location, &it.Images, &it.Rating)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		l.Item = &it
		lines = append(lines, l)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(ids) == 0 {
		return lines, nil
	}

	opts, err := loadOptions(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Item.Options = nonNil(opts[lines[i].ItemID])
	}
	return lines, nil
}
