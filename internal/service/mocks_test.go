package service_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// ---- mock repos ------------------------------------------------------------
// Hand-written test doubles. Each method delegates to a func field; a test
// only sets the fields it expects to be called, so an unexpected call panics.

type mockItemRepo struct {
	getByID   func(ctx context.Context, id uuid.UUID) (domain.BookableItem, error)
	listPaged func(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) ([]domain.BookableItem, int64, error)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BookableItem, error) {
	return m.getByID(ctx, id)
}
func (m *mockItemRepo) ListPaged(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) ([]domain.BookableItem, int64, error) {
	return m.listPaged(ctx, f, p)
}

var _ repo.ItemRepo = (*mockItemRepo)(nil)

// itemRepoWith returns an ItemRepo that knows exactly the given items.
func itemRepoWith(items ...domain.BookableItem) *mockItemRepo {
	return &mockItemRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.BookableItem, error) {
			for _, it := range items {
				if it.ID == id {
					return it, nil
				}
			}
			return domain.BookableItem{}, domain.ErrNotFound
		},
	}
}

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockWishlistRepo struct {
	list   func(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error)
	add    func(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error)
	remove func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockWishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error) {
	return m.list(ctx, userID)
}
func (m *mockWishlistRepo) Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error) {
	return m.add(ctx, userID, itemID, kind)
}
func (m *mockWishlistRepo) Remove(ctx context.Context, userID, id uuid.UUID) error {
	return m.remove(ctx, userID, id)
}

var _ repo.WishlistRepo = (*mockWishlistRepo)(nil)

type mockCartRepo struct {
	list        func(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	add         func(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error)
	get         func(ctx context.Context, userID, id uuid.UUID) (domain.CartLine, error)
	setQuantity func(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error)
	delete      func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockCartRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	return m.list(ctx, userID)
}
func (m *mockCartRepo) Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error) {
	return m.add(ctx, userID, itemID, itemType, quantity)
}
func (m *mockCartRepo) Get(ctx context.Context, userID, id uuid.UUID) (domain.CartLine, error) {
	return m.get(ctx, userID, id)
}
func (m *mockCartRepo) SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error) {
	return m.setQuantity(ctx, userID, id, quantity)
}
func (m *mockCartRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

var _ repo.CartRepo = (*mockCartRepo)(nil)

type mockOrderRepo struct {
	createFromCart func(ctx context.Context, order domain.Order, lineIDs []uuid.UUID) (domain.Order, error)
}

func (m *mockOrderRepo) CreateFromCart(ctx context.Context, order domain.Order, lineIDs []uuid.UUID) (domain.Order, error) {
	return m.createFromCart(ctx, order, lineIDs)
}

var _ repo.OrderRepo = (*mockOrderRepo)(nil)

type mockBookingRepo struct {
	create        func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	listByUser    func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
	listAllByUser func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listByUser(ctx, userID, p)
}
func (m *mockBookingRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listAllByUser(ctx, userID)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bufferLogger returns a JSON logger writing into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func ptr[T any](v T) *T { return &v }

// cabin is a stay with one ID-keyed and one name-keyed option.
func cabin() domain.BookableItem {
	return domain.BookableItem{
		ID:   uuid.MustParse("7d2f3a4e-0000-4000-8000-000000000001"),
		Type: domain.ServiceStay,
		Name: "Cedar Cabin",
		Options: []domain.Option{
			{ID: "A", Name: "Loft", Price: 100, Tax: ptr(10.0), Available: 3, Currency: "INR"},
			{Name: "Bunk", Price: 50, Available: 10, Currency: "INR"},
		},
	}
}

// raincoat is a cart-only product.
func raincoat() domain.BookableItem {
	return domain.BookableItem{
		ID:      uuid.MustParse("7d2f3a4e-0000-4000-8000-000000000002"),
		Type:    domain.ServiceProduct,
		Name:    "Raincoat",
		Options: []domain.Option{{Name: "M", Price: 40, Available: 5}, {Name: "L", Price: 45.5, Available: 5}},
	}
}
