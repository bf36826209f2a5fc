package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/service"
)

func bookingFixtureExport(name string, opts ...domain.BookingOption) domain.Booking {
	return domain.Booking{
		ID:         uuid.New(),
		ItemType:   domain.ServiceStay,
		ItemName:   name,
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Days:       2,
		Guests:     2,
		Customer:   domain.Customer{Name: "Asha", Email: "asha@example.com"},
		Currency:   "INR",
		Options:    opts,
		GrandTotal: 999.5,
	}
}

func exportServiceWith(bookings ...domain.Booking) *service.ExportService {
	return service.NewExportService(&mockBookingRepo{
		listAllByUser: func(context.Context, uuid.UUID) ([]domain.Booking, error) { return bookings, nil },
	})
}

func TestExportService_Export_OneRowPerOption(t *testing.T) {
	b := bookingFixtureExport("Cedar Cabin",
		domain.BookingOption{OptionID: "A", OptionName: "Loft", Quantity: 2, Price: 100, Taxes: 10},
		domain.BookingOption{OptionName: "Bunk", Quantity: 1, Price: 50},
	)

	rows, err := exportServiceWith(b).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.ID.String(), rows[0].BookingID)
	assert.Equal(t, "2025-06-01", rows[0].StartDate)
	assert.Equal(t, "2025-06-03", rows[0].EndDate)
	assert.Equal(t, "Loft", rows[0].OptionName)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.InDelta(t, 10.0, rows[0].UnitTax, 0.001)
	assert.Equal(t, "Bunk", rows[1].OptionName)
	assert.InDelta(t, 999.5, rows[1].GrandTotal, 0.001, "booking fields repeat on every row")
}

func TestExportService_Export_BookingWithoutOptions(t *testing.T) {
	rows, err := exportServiceWith(bookingFixtureExport("Legacy")).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Legacy", rows[0].ItemName)
	assert.Empty(t, rows[0].OptionName)
}

func TestExportService_Export_NoBookings(t *testing.T) {
	rows, err := exportServiceWith().Export(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
