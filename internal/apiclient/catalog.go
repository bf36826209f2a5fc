package apiclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
)

type itemResponse struct {
	Item domain.BookableItem `json:"item"`
}

type quoteRequest struct {
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
	Selections map[string]int `json:"selections"`
}

type quoteResponse struct {
	Summary pricing.Summary `json:"summary"`
}

type bookingResponse struct {
	Booking domain.Booking `json:"booking"`
}

// Item fetches one catalog item with its options.
func (c *Client) Item(ctx context.Context, id uuid.UUID) (domain.BookableItem, error) {
	var out itemResponse
	err := c.do(ctx, http.MethodGet, "/api/items/"+id.String(), nil, &out)
	return out.Item, err
}

// Quote asks the server to price a selection.
func (c *Client) Quote(ctx context.Context, id uuid.UUID, start, end string, selections map[string]int) (pricing.Summary, error) {
	var out quoteResponse
	body := quoteRequest{StartDate: start, EndDate: end, Selections: selections}
	err := c.do(ctx, http.MethodPost, "/api/items/"+id.String()+"/quote", body, &out)
	return out.Summary, err
}

// BookingInput is the body of POST /api/bookings/{vertical}.
type BookingInput struct {
	ItemID    uuid.UUID              `json:"itemId"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Guests    int                    `json:"guests"`
	Customer  domain.Customer        `json:"customer"`
	Currency  string                 `json:"currency,omitempty"`
	Options   []domain.BookingOption `json:"options"`
	Fees      float64                `json:"fees"`
}

// Book submits a booking for the given vertical path segment
// ("stays", "tours", "adventures", "vehicle-rentals").
func (c *Client) Book(ctx context.Context, vertical string, in BookingInput) (domain.Booking, error) {
	var out bookingResponse
	err := c.do(ctx, http.MethodPost, "/api/bookings/"+vertical, in, &out)
	return out.Booking, err
}
