// Package handler implements the HTTP handlers for the Wanderkart API.
// Handlers are methods on Server, split into domain-specific files
// (catalog.go, wishlist.go, ...) but sharing the same struct so they can
// access its dependencies. NewRouter wires them onto a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
	"github.com/pkordes/wanderkart/backend/internal/service"
)

// The servicer interfaces below are defined here, in the consumer package,
// so handler tests can inject hand-written mocks without a database.

// CatalogServicer defines the catalog operations the handlers depend on.
type CatalogServicer interface {
	List(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) (domain.Page[domain.BookableItem], error)
	Get(ctx context.Context, id uuid.UUID) (domain.BookableItem, error)
	Quote(ctx context.Context, id uuid.UUID, req service.QuoteRequest) (pricing.Summary, error)
}

// AuthServicer defines the account operations the handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, email, password, name string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	User(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// WishlistServicer defines the wishlist operations the handlers depend on.
type WishlistServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error)
	Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

// CartServicer defines the cart operations the handlers depend on.
type CartServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID) (domain.Order, error)
}

// BookingServicer defines the booking operations the handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Booking], error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.BookingExportRow, error)
}

// Sessioner issues session cookies and guards authenticated routes.
// *middleware.Sessions implements it.
type Sessioner interface {
	Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error
	Logout(w http.ResponseWriter, r *http.Request) error
	RequireUser(next http.Handler) http.Handler
}

// Deps bundles everything a Server needs. Nil services leave their routes
// answering 500, which keeps focused handler tests short.
type Deps struct {
	Catalog  CatalogServicer
	Auth     AuthServicer
	Wishlist WishlistServicer
	Cart     CartServicer
	Bookings BookingServicer
	Export   ExportServicer
	Sessions Sessioner
	Log      *slog.Logger
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	catalog  CatalogServicer
	auth     AuthServicer
	wishlist WishlistServicer
	cart     CartServicer
	bookings BookingServicer
	export   ExportServicer
	sessions Sessioner
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		catalog:  d.Catalog,
		auth:     d.Auth,
		wishlist: d.Wishlist,
		cart:     d.Cart,
		bookings: d.Bookings,
		export:   d.Export,
		sessions: d.Sessions,
		log:      log,
	}
}
