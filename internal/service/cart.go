package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// CartService manages cart lines and checkout.
type CartService struct {
	items  repo.ItemRepo
	carts  repo.CartRepo
	orders repo.OrderRepo
	log    *slog.Logger
}

// NewCartService constructs a CartService backed by the provided repos.
func NewCartService(items repo.ItemRepo, carts repo.CartRepo, orders repo.OrderRepo, log *slog.Logger) *CartService {
	return &CartService{items: items, carts: carts, orders: orders, log: log}
}

// List returns the user's cart lines, oldest first. Never nil.
func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.CartService.List: %w", err)
	}
	if lines == nil {
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

// Add puts quantity units of an item in the cart, merging with an existing
// line for the same item. itemType may be empty; when set it must match.
func (s *CartService) Add(ctx context.Context, userID, itemID uuid.UUID, itemType domain.ServiceType, quantity int) (domain.CartLine, error) {
	if quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("service.CartService.Add: %w", err)
	}
	if itemType != "" && itemType != item.Type {
		return domain.CartLine{}, fmt.Errorf("%w: item is a %s, not a %s", domain.ErrValidation, item.Type, itemType)
	}

	line, err := s.carts.Add(ctx, userID, itemID, item.Type, quantity)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("service.CartService.Add: %w", err)
	}
	return line, nil
}

// SetQuantity replaces a line's quantity. Quantities below 1 are rejected;
// removing a line is done with Remove.
func (s *CartService) SetQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (domain.CartLine, error) {
	if quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	line, err := s.carts.SetQuantity(ctx, userID, id, quantity)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("service.CartService.SetQuantity: %w", err)
	}
	return line, nil
}

// Remove deletes a line addressed by its own ID or its item's ID.
func (s *CartService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.carts.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.CartService.Remove: %w", err)
	}
	return nil
}

// Checkout turns the cart into an order. Each line is priced at its item's
// "from" price. Returns domain.ErrValidation for an empty cart or a cart
// mixing currencies, and domain.ErrConflict if the cart changed underneath.
func (s *CartService) Checkout(ctx context.Context, userID uuid.UUID) (domain.Order, error) {
	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("service.CartService.Checkout: %w", err)
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	order := domain.Order{UserID: userID, Lines: make([]domain.OrderLine, 0, len(lines))}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		item := domain.BookableItem{ID: l.ItemID, Type: l.ItemType}
		if l.Item != nil {
			item = *l.Item
		}
		price, currency := item.FromPrice()
		if order.Currency == "" {
			order.Currency = currency
		} else if currency != order.Currency {
			return domain.Order{}, fmt.Errorf("%w: cart mixes %s and %s", domain.ErrValidation, order.Currency, currency)
		}

		ol := domain.OrderLine{
			ItemID:    l.ItemID,
			ItemType:  l.ItemType,
			Name:      item.Name,
			Quantity:  l.Quantity,
			UnitPrice: price,
			LineTotal: round2(price * float64(l.Quantity)),
		}
		order.Lines = append(order.Lines, ol)
		order.Total += ol.LineTotal
		ids = append(ids, l.ID)
	}
	order.Total = round2(order.Total)

	result, err := s.orders.CreateFromCart(ctx, order, ids)
	if err != nil {
		return domain.Order{}, fmt.Errorf("service.CartService.Checkout: %w", err)
	}

	s.log.InfoContext(ctx, "checkout completed",
		"user_id", userID,
		"order_id", result.ID,
		"lines", len(result.Lines),
		"total", result.Total,
		"currency", result.Currency,
	)
	return result, nil
}
