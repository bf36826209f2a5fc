package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// WishlistMessages are the texts shown by the item detail pages.
var WishlistMessages = Messages{
	Unauthorized: "Please log in to add favourites.",
	Failed:       "Could not update your favourites. Please try again.",
}

// ErrKindRequired is returned when adding to the wishlist without saying
// which vertical the item belongs to.
var ErrKindRequired = errors.New("service type is required to add a favourite")

// Wishlist is the optimistic favourites list shared by every vertical.
type Wishlist struct {
	*Collection[domain.WishlistEntry]
}

// NewWishlist builds an empty wishlist; call Refresh to load it.
func NewWishlist(remote Remote[domain.WishlistEntry], log *slog.Logger) *Wishlist {
	return &Wishlist{New(remote, domain.WishlistEntry.Keys, WishlistMessages, log)}
}

// Has reports whether itemID is favourited, whether addressed by item ID or
// by wishlist entry ID.
func (w *Wishlist) Has(id uuid.UUID) bool {
	return w.Contains(id.String())
}

// Toggle flips (or, with desired set, forces) the favourite state of itemID
// and returns the resulting membership. kind may be empty when removing.
func (w *Wishlist) Toggle(ctx context.Context, itemID uuid.UUID, desired *bool, kind domain.ServiceType) (bool, error) {
	key := itemID.String()
	adding := !w.Contains(key)
	if desired != nil {
		adding = *desired
	}
	if adding && !kind.Wishlistable() {
		return w.Contains(key), ErrKindRequired
	}
	placeholder := domain.WishlistEntry{
		Kind: kind,
		Item: domain.BookableItem{ID: itemID, Type: kind},
	}
	return w.Collection.Toggle(ctx, key, &adding, placeholder)
}
