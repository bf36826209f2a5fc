package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/handler"
	"github.com/pkordes/wanderkart/backend/internal/middleware"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
	"github.com/pkordes/wanderkart/backend/internal/service"
)

// ---- mock servicers --------------------------------------------------------
// Set only the method fields your test needs.

type mockCatalogServicer struct {
	list  func(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) (domain.Page[domain.BookableItem], error)
	get   func(ctx context.Context, id uuid.UUID) (domain.BookableItem, error)
	quote func(ctx context.Context, id uuid.UUID, req service.QuoteRequest) (pricing.Summary, error)
}

func (m *mockCatalogServicer) List(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) (domain.Page[domain.BookableItem], error) {
	return m.list(ctx, f, p)
}
func (m *mockCatalogServicer) Get(ctx context.Context, id uuid.UUID) (domain.BookableItem, error) {
	return m.get(ctx, id)
}
func (m *mockCatalogServicer) Quote(ctx context.Context, id uuid.UUID, req service.QuoteRequest) (pricing.Summary, error) {
	return m.quote(ctx, id, req)
}

var _ handler.CatalogServicer = (*mockCatalogServicer)(nil)

type mockAuthServicer struct {
	register func(ctx context.Context, email, password, name string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (domain.User, error)
	user     func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	return m.register(ctx, email, password, name)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.User, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) User(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.user(ctx, id)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockWishlistServicer struct {
	list   func(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error)
	add    func(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error)
	remove func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockWishlistServicer) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error) {
	return m.list(ctx, userID)
}
func (m *mockWishlistServicer) Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error) {
	return m.add(ctx, userID, itemID, kind)
}
func (m *mockWishlistServicer) Remove(ctx context.Context, userID, id uuid.UUID) error {
	return m.remove(ctx, userID, id)
}

var _ handler.WishlistServicer = (*mockWishlistServicer)(nil)

type mockCartServicer struct {
	list        func(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	add         func(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error)
	setQuantity func(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error)
	remove      func(ctx context.Context, userID, id uuid.UUID) error
	checkout    func(ctx context.Context, userID uuid.UUID) (domain.Order, error)
}

func (m *mockCartServicer) List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	return m.list(ctx, userID)
}
func (m *mockCartServicer) Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error) {
	return m.add(ctx, userID, itemID, itemType, quantity)
}
func (m *mockCartServicer) SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error) {
	return m.setQuantity(ctx, userID, id, quantity)
}
func (m *mockCartServicer) Remove(ctx context.Context, userID, id uuid.UUID) error {
	return m.remove(ctx, userID, id)
}
func (m *mockCartServicer) Checkout(ctx context.Context, userID uuid.UUID) (domain.Order, error) {
	return m.checkout(ctx, userID)
}

var _ handler.CartServicer = (*mockCartServicer)(nil)

type mockBookingServicer struct {
	create func(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	list   func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Booking], error)
}

func (m *mockBookingServicer) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	return m.create(ctx, req)
}
func (m *mockBookingServicer) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Booking], error) {
	return m.list(ctx, userID, p)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context, userID uuid.UUID) ([]domain.BookingExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID uuid.UUID) ([]domain.BookingExportRow, error) {
	return m.export(ctx, userID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var testSessions = middleware.NewSessions([]byte(strings.Repeat("s", 32)), false)

// newHTTPHandler wires a Server with the given deps into the real router,
// using real cookie sessions. This mirrors how main.go wires it.
func newHTTPHandler(d handler.Deps) http.Handler {
	d.Sessions = testSessions
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return handler.NewRouter(handler.NewServer(d))
}

// sessionCookie returns a valid session cookie for userID.
func sessionCookie(t *testing.T, userID uuid.UUID) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, testSessions.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), userID))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

// do sends a request through h. body is JSON-encoded unless nil; a non-nil
// userID attaches a session cookie for that user.
func do(t *testing.T, h http.Handler, method, path string, body any, userID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := newRequest(t, method, path, rdr)
	if userID != nil {
		req.AddCookie(sessionCookie(t, *userID))
	}
	return serve(h, req)
}

// newRequest builds a request with a JSON content type when body is set.
func newRequest(t *testing.T, method, path string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode parses the recorder body as a JSON object.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func ptr[T any](v T) *T { return &v }
