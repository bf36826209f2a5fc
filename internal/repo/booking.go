package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// BookingRepo persists confirmed bookings.
type BookingRepo interface {
	// Create inserts a booking and returns it with id and created_at populated.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// ListByUser returns one page of the user's bookings, newest first, and
	// the user's total booking count.
	ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// ListAllByUser returns every booking of the user, newest first. Used by export.
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `
	id, user_id, item_id, item_type, item_name, start_date, end_date, days, guests,
	customer_name, customer_email, customer_phone, currency, options,
	subtotal, taxes, fees, total, grand_total, status, created_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	q := `
		INSERT INTO bookings (
			user_id, item_id, item_type, item_name, start_date, end_date, days, guests,
			customer_name, customer_email, customer_phone, currency, options,
			subtotal, taxes, fees, total, grand_total, status
		) VALUES (
			@user_id, @item_id, @item_type, @item_name, @start_date, @end_date, @days, @guests,
			@customer_name, @customer_email, @customer_phone, @currency, @options,
			@subtotal, @taxes, @fees, @total, @grand_total, @status
		)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"user_id":        b.UserID,
		"item_id":        b.ItemID,
		"item_type":      string(b.ItemType),
		"item_name":      b.ItemName,
		"start_date":     b.StartDate,
		"end_date":       b.EndDate,
		"days":           b.Days,
		"guests":         b.Guests,
		"customer_name":  b.Customer.Name,
		"customer_email": b.Customer.Email,
		"customer_phone": b.Customer.Phone,
		"currency":       b.Currency,
		"options":        b.Options,
		"subtotal":       b.Subtotal,
		"taxes":          b.Taxes,
		"fees":           b.Fees,
		"total":          b.Total,
		"grand_total":    b.GrandTotal,
		"status":         b.Status,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const countQ = `SELECT COUNT(*) FROM bookings WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUser: count: %w", err)
	}

	q := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	bookings, err := r.query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id`

	bookings, err := r.query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListAllByUser: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bookings, nil
}

// scanBooking maps one bookings row. DATE columns scan as UTC midnight.
func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	err := s.Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.ItemType, &b.ItemName, &b.StartDate, &b.EndDate, &b.Days, &b.Guests,
		&b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &b.Currency, &b.Options,
		&b.Subtotal, &b.Taxes, &b.Fees, &b.Total, &b.GrandTotal, &b.Status, &b.CreatedAt,
	)
	return b, err
}
