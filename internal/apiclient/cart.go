package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

type cartResponse struct {
	Cart []domain.CartLine `json:"cart"`
}

type cartLineResponse struct {
	Line domain.CartLine `json:"line"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
}

// Cart fetches the caller's cart lines.
func (c *Client) Cart(ctx context.Context) ([]domain.CartLine, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// AddToCart adds qty units of an item, merging with any existing line.
func (c *Client) AddToCart(ctx context.Context, itemID uuid.UUID, itemType domain.ServiceType, qty int) (domain.CartLine, error) {
	body := map[string]any{"itemId": itemID, "itemType": itemType, "quantity": qty}
	var out cartLineResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart", body, &out); err != nil {
		return domain.CartLine{}, err
	}
	return out.Line, nil
}

// UpdateCartLine sets a line's quantity.
func (c *Client) UpdateCartLine(ctx context.Context, lineID uuid.UUID, qty int) (domain.CartLine, error) {
	var out cartLineResponse
	if err := c.do(ctx, http.MethodPatch, "/api/cart/"+lineID.String(), map[string]int{"quantity": qty}, &out); err != nil {
		return domain.CartLine{}, err
	}
	return out.Line, nil
}

// RemoveCartLine deletes a line.
func (c *Client) RemoveCartLine(ctx context.Context, lineID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+lineID.String(), nil, nil)
}

// Checkout turns the cart into an order and empties it.
func (c *Client) Checkout(ctx context.Context) (domain.Order, error) {
	var out orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart/checkout", nil, &out); err != nil {
		return domain.Order{}, err
	}
	return out.Order, nil
}

// CartRemote adapts Client to reconcile.Remote and reconcile.Updater for cart lines.
type CartRemote struct {
	*Client
}

func (r CartRemote) List(ctx context.Context) ([]domain.CartLine, error) {
	return r.Cart(ctx)
}

func (r CartRemote) Add(ctx context.Context, l domain.CartLine) (domain.CartLine, error) {
	return r.AddToCart(ctx, l.ItemID, l.ItemType, l.Quantity)
}

func (r CartRemote) Update(ctx context.Context, l domain.CartLine) (domain.CartLine, error) {
	if l.ID == uuid.Nil {
		return domain.CartLine{}, fmt.Errorf("apiclient.CartRemote.Update: line not yet confirmed")
	}
	return r.UpdateCartLine(ctx, l.ID, l.Quantity)
}

func (r CartRemote) Remove(ctx context.Context, l domain.CartLine) error {
	if l.ID == uuid.Nil {
		return fmt.Errorf("apiclient.CartRemote.Remove: line not yet confirmed")
	}
	return r.RemoveCartLine(ctx, l.ID)
}
