package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// WishlistService manages a user's favourites across all bookable verticals.
type WishlistService struct {
	items    repo.ItemRepo
	wishlist repo.WishlistRepo
}

// NewWishlistService constructs a WishlistService backed by the provided repos.
func NewWishlistService(items repo.ItemRepo, wishlist repo.WishlistRepo) *WishlistService {
	return &WishlistService{items: items, wishlist: wishlist}
}

// List returns the user's entries, newest first. Never nil.
func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistEntry, error) {
	entries, err := s.wishlist.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.WishlistService.List: %w", err)
	}
	if entries == nil {
		return []domain.WishlistEntry{}, nil
	}
	return entries, nil
}

// Add favourites an item of the given kind. Adding twice returns the same entry.
// Returns domain.ErrValidation if kind cannot be favourited or does not match
// the item's type, and domain.ErrNotFound if the item does not exist.
func (s *WishlistService) Add(ctx context.Context, userID, itemID uuid.UUID, kind domain.ServiceType) (domain.WishlistEntry, error) {
	if !kind.Wishlistable() {
		return domain.WishlistEntry{}, fmt.Errorf("%w: %q items cannot be added to the wishlist", domain.ErrValidation, kind)
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.WishlistEntry{}, fmt.Errorf("service.WishlistService.Add: %w", err)
	}
	if item.Type != kind {
		return domain.WishlistEntry{}, fmt.Errorf("%w: item is a %s, not a %s", domain.ErrValidation, item.Type, kind)
	}

	entry, err := s.wishlist.Add(ctx, userID, itemID, kind)
	if err != nil {
		return domain.WishlistEntry{}, fmt.Errorf("service.WishlistService.Add: %w", err)
	}
	return entry, nil
}

// Remove deletes the entry addressed by its own ID or its item's ID.
func (s *WishlistService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.wishlist.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("service.WishlistService.Remove: %w", err)
	}
	return nil
}
