package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/handler"
)

func TestWishlist_RequiresSession(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{}})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/wishlist"},
		{http.MethodPost, "/api/wishlist"},
		{http.MethodDelete, "/api/wishlist/" + uuid.NewString()},
	} {
		rec := do(t, h, tc.method, tc.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListWishlist_PolymorphicShape(t *testing.T) {
	userID := uuid.New()
	added := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	item := itemFixture()
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{
		list: func(_ context.Context, id uuid.UUID) ([]domain.WishlistEntry, error) {
			require.Equal(t, userID, id)
			return []domain.WishlistEntry{{ID: uuid.New(), Kind: domain.ServiceStay, Item: item, AddedAt: &added}}, nil
		},
	}})

	rec := do(t, h, http.MethodGet, "/api/wishlist", nil, &userID)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode(t, rec)["wishlist"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "stay", entry["type"])
	assert.Equal(t, item.ID.String(), entry["stay"].(map[string]any)["_id"])
}

func TestAddToWishlist_PicksVerticalFromKey(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	var gotKind domain.ServiceType
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{
		add: func(_ context.Context, _, id uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error) {
			require.Equal(t, itemID, id)
			gotKind = kind
			return domain.WishlistEntry{ID: uuid.New(), Kind: kind, Item: domain.BookableItem{ID: id, Type: kind}}, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/wishlist", map[string]string{"tourId": itemID.String()}, &userID)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.ServiceTour, gotKind)
}

func TestAddToWishlist_RequiresExactlyOneKey(t *testing.T) {
	userID := uuid.New()
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{}})

	for name, body := range map[string]map[string]string{
		"none": {},
		"two":  {"stayId": uuid.NewString(), "tourId": uuid.NewString()},
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/wishlist", body, &userID)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestAddToWishlist_UnknownItem(t *testing.T) {
	userID := uuid.New()
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{
		add: func(context.Context, uuid.UUID, uuid.UUID, domain.ServiceType) (domain.WishlistEntry, error) {
			return domain.WishlistEntry{}, domain.ErrNotFound
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/wishlist", map[string]string{"stayId": uuid.NewString()}, &userID)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item not found", decode(t, rec)["message"])
}

func TestRemoveFromWishlist(t *testing.T) {
	userID := uuid.New()
	target := uuid.New()
	h := newHTTPHandler(handler.Deps{Wishlist: &mockWishlistServicer{
		remove: func(_ context.Context, uid, id uuid.UUID) error {
			require.Equal(t, userID, uid)
			require.Equal(t, target, id)
			return nil
		},
	}})

	rec := do(t, h, http.MethodDelete, "/api/wishlist/"+target.String(), nil, &userID)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
