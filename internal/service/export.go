package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// ExportService assembles a flat export of a user's bookings.
type ExportService struct {
	bookings repo.BookingRepo
}

// NewExportService constructs an ExportService backed by the provided BookingRepo.
func NewExportService(bookings repo.BookingRepo) *ExportService {
	return &ExportService{bookings: bookings}
}

// Export returns one row per booked option across all of the user's
// bookings, newest booking first. Bookings with no options contribute one
// row with empty option fields.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.BookingExportRow, error) {
	bookings, err := s.bookings.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.BookingExportRow{}
	for _, b := range bookings {
		base := domain.BookingExportRow{
			BookingID:  b.ID.String(),
			ItemType:   string(b.ItemType),
			ItemName:   b.ItemName,
			StartDate:  b.StartDate.Format("2006-01-02"),
			EndDate:    b.EndDate.Format("2006-01-02"),
			Days:       b.Days,
			Guests:     b.Guests,
			Customer:   b.Customer.Name,
			Currency:   b.Currency,
			GrandTotal: b.GrandTotal,
			CreatedAt:  b.CreatedAt,
		}
		if len(b.Options) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, o := range b.Options {
			row := base
			row.OptionName = o.OptionName
			row.Quantity = o.Quantity
			row.UnitPrice = o.Price
			row.UnitTax = o.Taxes
			rows = append(rows, row)
		}
	}
	return rows, nil
}
