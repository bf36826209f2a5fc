package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// priceTolerance is the largest client/server per-unit difference that is
// not logged as a mismatch.
const priceTolerance = 0.005

// BookingService validates and prices booking requests. Prices always come
// from the catalog; the amounts a client sends are compared and logged only.
type BookingService struct {
	items    repo.ItemRepo
	bookings repo.BookingRepo
	log      *slog.Logger
	currency string
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(items repo.ItemRepo, bookings repo.BookingRepo, log *slog.Logger) *BookingService {
	return &BookingService{items: items, bookings: bookings, log: log, currency: domain.DefaultCurrency}
}

// WithDefaultCurrency sets the currency used when neither the selected
// options nor the request name one.
func (s *BookingService) WithDefaultCurrency(currency string) *BookingService {
	if currency != "" {
		s.currency = strings.ToUpper(currency)
	}
	return s
}

// Create validates req, prices it against the catalog and persists a
// confirmed booking.
// Returns domain.ErrValidation when the request breaks a booking rule and
// domain.ErrNotFound when the item does not exist.
func (s *BookingService) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return domain.Booking{}, err
	}

	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if item.Type != req.Vertical {
		return domain.Booking{}, fmt.Errorf("%w: item is a %s, not a %s", domain.ErrValidation, item.Type, req.Vertical)
	}

	qty, err := s.quantities(ctx, item, req.Options)
	if err != nil {
		return domain.Booking{}, err
	}

	dates := pricing.DateRange{Start: req.StartDate, End: req.EndDate}.Calendar().Normalize()
	sum := pricing.Aggregate(item.Options, qty, dates.Days())
	if !sum.CanSubmit() {
		return domain.Booking{}, fmt.Errorf("%w: select at least one option", domain.ErrValidation)
	}
	currency := s.currencyFor(item, qty, req.Currency)
	if req.Currency != "" && !strings.EqualFold(req.Currency, currency) {
		s.log.WarnContext(ctx, "booking currency differs from catalog",
			"item_id", item.ID, "client", req.Currency, "catalog", currency)
	}

	b := domain.Booking{
		UserID:    req.UserID,
		ItemID:    item.ID,
		ItemType:  item.Type,
		ItemName:  item.Name,
		StartDate: dates.Start,
		EndDate:   dates.End,
		Days:      sum.Days,
		Guests:    req.Guests,
		Customer: domain.Customer{
			Name:  strings.TrimSpace(req.Customer.Name),
			Email: strings.TrimSpace(req.Customer.Email),
			Phone: strings.TrimSpace(req.Customer.Phone),
		},
		Currency: currency,
		Options:  make([]domain.BookingOption, 0, len(sum.Lines)),
		Subtotal: sum.Subtotal,
		Taxes:    sum.Taxes,
		Fees:     round2(req.Fees),
		Total:    sum.Total,
		Status:   domain.BookingStatusConfirmed,
	}
	b.GrandTotal = round2(b.Total + b.Fees)
	for _, l := range sum.Lines {
		o, _ := item.Option(l.Key)
		b.Options = append(b.Options, domain.BookingOption{
			OptionID:   o.ID,
			OptionName: o.Name,
			Quantity:   l.Quantity,
			Price:      l.UnitPrice,
			Taxes:      l.UnitTax,
		})
	}

	result, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	s.log.InfoContext(ctx, "booking created",
		"booking_id", result.ID,
		"user_id", result.UserID,
		"item_id", result.ItemID,
		"days", result.Days,
		"grand_total", result.GrandTotal,
		"currency", result.Currency,
	)
	return result, nil
}

// List returns one page of the user's bookings, newest first.
func (s *BookingService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Booking], error) {
	bookings, total, err := s.bookings.ListByUser(ctx, userID, p)
	if err != nil {
		return domain.Page[domain.Booking]{}, fmt.Errorf("service.BookingService.List: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return domain.Page[domain.Booking]{Items: bookings, Total: total}, nil
}

// quantities maps requested options onto catalog keys, checking each against
// the item's options and their availability. Client prices that disagree
// with the catalog are logged.
func (s *BookingService) quantities(ctx context.Context, item domain.BookableItem, opts []domain.BookingOption) (map[string]int, error) {
	qty := make(map[string]int, len(opts))
	for _, bo := range opts {
		if bo.Quantity == 0 {
			continue
		}
		key := bo.OptionID
		if key == "" {
			key = bo.OptionName
		}
		o, ok := item.Option(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an option of this item", domain.ErrValidation, key)
		}
		if _, dup := qty[key]; dup {
			return nil, fmt.Errorf("%w: option %q listed twice", domain.ErrValidation, key)
		}
		if bo.Quantity > o.Available {
			return nil, fmt.Errorf("%w: only %d of %q available", domain.ErrValidation, o.Available, o.Name)
		}
		if math.Abs(bo.Price-o.Price) > priceTolerance || math.Abs(bo.Taxes-o.TaxOrZero()) > priceTolerance {
			s.log.WarnContext(ctx, "client price differs from catalog",
				"item_id", item.ID,
				"option", key,
				"client_price", bo.Price,
				"catalog_price", o.Price,
				"client_tax", bo.Taxes,
				"catalog_tax", o.TaxOrZero(),
			)
		}
		qty[key] = bo.Quantity
	}
	return qty, nil
}

// currencyFor picks the booking currency: the first selected option that
// names one, then the client's choice, then the configured default.
func (s *BookingService) currencyFor(item domain.BookableItem, qty map[string]int, requested string) string {
	for _, o := range item.Options {
		if qty[o.Key()] > 0 && o.Currency != "" {
			return o.Currency
		}
	}
	if requested != "" {
		return strings.ToUpper(requested)
	}
	return s.currency
}

// validateBookingRequest enforces the rules that need no catalog lookup.
//   - The vertical must be bookable.
//   - Customer name and a valid email are required.
//   - At least one guest, non-negative fees, a start date.
//   - At least one option with quantity >= 1 and none negative.
func validateBookingRequest(req domain.BookingRequest) error {
	if !req.Vertical.Bookable() {
		return fmt.Errorf("%w: %q cannot be booked", domain.ErrValidation, req.Vertical)
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Customer.Email)); err != nil {
		return fmt.Errorf("%w: a valid customer email is required", domain.ErrValidation)
	}
	if req.Guests < 1 {
		return fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}
	if req.Fees < 0 {
		return fmt.Errorf("%w: fees must not be negative", domain.ErrValidation)
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", domain.ErrValidation)
	}

	selected := 0
	for _, o := range req.Options {
		if o.Quantity < 0 {
			return fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
		}
		selected += o.Quantity
	}
	if selected == 0 {
		return fmt.Errorf("%w: select at least one option", domain.ErrValidation)
	}
	return nil
}
