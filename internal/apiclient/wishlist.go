package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

type wishlistResponse struct {
	Wishlist []domain.WishlistEntry `json:"wishlist"`
}

type wishlistEntryResponse struct {
	Entry domain.WishlistEntry `json:"entry"`
}

// Wishlist fetches the caller's favourites.
func (c *Client) Wishlist(ctx context.Context) ([]domain.WishlistEntry, error) {
	var out wishlistResponse
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out.Wishlist, nil
}

// AddToWishlist favourites an item. The body key is derived from kind,
// e.g. {"stayId": "..."} or {"vehicleRentalId": "..."}.
func (c *Client) AddToWishlist(ctx context.Context, kind domain.ServiceType, itemID uuid.UUID) (domain.WishlistEntry, error) {
	if !kind.Wishlistable() {
		return domain.WishlistEntry{}, fmt.Errorf("apiclient.AddToWishlist: %w: unsupported type %q", domain.ErrValidation, kind)
	}
	body := map[string]string{string(kind) + "Id": itemID.String()}
	var out wishlistEntryResponse
	if err := c.do(ctx, http.MethodPost, "/api/wishlist", body, &out); err != nil {
		return domain.WishlistEntry{}, err
	}
	return out.Entry, nil
}

// RemoveFromWishlist deletes a favourite by entry ID or item ID.
func (c *Client) RemoveFromWishlist(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+id.String(), nil, nil)
}

// WishlistRemote adapts Client to reconcile.Remote[domain.WishlistEntry].
type WishlistRemote struct {
	*Client
}

func (r WishlistRemote) List(ctx context.Context) ([]domain.WishlistEntry, error) {
	return r.Wishlist(ctx)
}

func (r WishlistRemote) Add(ctx context.Context, e domain.WishlistEntry) (domain.WishlistEntry, error) {
	return r.AddToWishlist(ctx, e.Kind, e.Item.ID)
}

func (r WishlistRemote) Remove(ctx context.Context, e domain.WishlistEntry) error {
	id := e.Item.ID
	if id == uuid.Nil {
		id = e.ID
	}
	return r.RemoveFromWishlist(ctx, id)
}
