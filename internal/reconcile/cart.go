package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// CartMessages are the texts shown by the cart widgets.
var CartMessages = Messages{
	Unauthorized: "Please log in to use your cart.",
	Failed:       "Could not update your cart. Please try again.",
}

// Cart is the optimistic shopping cart.
type Cart struct {
	*Collection[domain.CartLine]
}

// NewCart builds an empty cart; call Refresh to load it.
func NewCart(remote Remote[domain.CartLine], log *slog.Logger) *Cart {
	return &Cart{New(remote, domain.CartLine.Keys, CartMessages, log)}
}

// AddItem puts qty units of an item in the cart, merging with an existing
// line for the same item.
func (c *Cart) AddItem(ctx context.Context, itemID uuid.UUID, itemType domain.ServiceType, qty int) error {
	if qty < 1 {
		return fmt.Errorf("reconcile: add to cart: %w: quantity must be at least 1", domain.ErrValidation)
	}
	line := domain.CartLine{ItemID: itemID, ItemType: itemType, Quantity: qty}
	return c.Add(ctx, itemID.String(), line, func(existing, add domain.CartLine) domain.CartLine {
		existing.Quantity += add.Quantity
		return existing
	})
}

// SetQuantity changes the quantity of the line addressed by key (line ID or
// item ID). A quantity below 1 removes the line.
func (c *Cart) SetQuantity(ctx context.Context, key string, qty int) error {
	if qty < 1 {
		return c.Remove(ctx, key)
	}
	return c.Update(ctx, key, func(l domain.CartLine) domain.CartLine {
		l.Quantity = qty
		return l
	})
}

// Units is the total quantity across all lines, as shown on the cart badge.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.Items() {
		n += l.Quantity
	}
	return n
}
