// Package service contains the business logic for the Wanderkart API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// CatalogService serves listings and server-side price previews.
type CatalogService struct {
	items repo.ItemRepo
}

// NewCatalogService constructs a CatalogService backed by the provided ItemRepo.
func NewCatalogService(items repo.ItemRepo) *CatalogService {
	return &CatalogService{items: items}
}

// QuoteRequest is the input to CatalogService.Quote. Dates are the raw
// strings the client sent; unparsable dates price as one day.
type QuoteRequest struct {
	StartDate  string
	EndDate    string
	Selections map[string]int
}

// List returns one page of the catalog.
// Returns domain.ErrValidation if f.Type is set but not a known service type.
func (s *CatalogService) List(ctx context.Context, f domain.ItemFilter, p domain.PaginationParams) (domain.Page[domain.BookableItem], error) {
	if f.Type != "" {
		if _, ok := domain.ParseServiceType(string(f.Type)); !ok {
			return domain.Page[domain.BookableItem]{}, fmt.Errorf("%w: unknown type %q", domain.ErrValidation, f.Type)
		}
	}
	items, total, err := s.items.ListPaged(ctx, f, p)
	if err != nil {
		return domain.Page[domain.BookableItem]{}, fmt.Errorf("service.CatalogService.List: %w", err)
	}
	if items == nil {
		items = []domain.BookableItem{}
	}
	return domain.Page[domain.BookableItem]{Items: items, Total: total}, nil
}

// Get returns one item. Returns domain.ErrNotFound if it does not exist.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (domain.BookableItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return domain.BookableItem{}, fmt.Errorf("service.CatalogService.Get: %w", err)
	}
	return item, nil
}

// Quote prices a selection of the item's options over the requested dates.
// An empty selection is not an error; the summary simply cannot be submitted.
func (s *CatalogService) Quote(ctx context.Context, id uuid.UUID, req QuoteRequest) (pricing.Summary, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return pricing.Summary{}, fmt.Errorf("service.CatalogService.Quote: %w", err)
	}
	sum, err := pricing.Quote(item.Options, req.Selections, req.StartDate, req.EndDate)
	if err != nil {
		return pricing.Summary{}, fmt.Errorf("service.CatalogService.Quote: %w", selectionError(err))
	}
	return sum, nil
}

// selectionError marks client-caused selection errors as validation failures.
// Duplicate option keys are a catalog defect and stay internal.
func selectionError(err error) error {
	if errors.Is(err, pricing.ErrUnknownOption) || errors.Is(err, pricing.ErrNegativeQuantity) {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
