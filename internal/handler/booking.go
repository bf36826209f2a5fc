package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/pricing"
)

type customerBody struct {
	Name  string              `json:"name"`
	Email openapi_types.Email `json:"email"`
	Phone string              `json:"phone"`
}

// bookingBody is the request shared by all verticals. Prices inside Options
// are what the client displayed; the server recomputes them.
type bookingBody struct {
	ItemID    uuid.UUID              `json:"itemId"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Guests    int                    `json:"guests"`
	Customer  customerBody           `json:"customer"`
	Currency  string                 `json:"currency"`
	Options   []domain.BookingOption `json:"options"`
	Fees      float64                `json:"fees"`
}

// CreateBooking handles POST /api/bookings/{vertical} where vertical is one
// of stays, tours, adventures, vehicle-rentals.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	vertical, known := domain.ParseVertical(chi.URLParam(r, "vertical"))
	if !known {
		writeMessage(w, http.StatusNotFound, "unknown booking type")
		return
	}
	var body bookingBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	if body.ItemID == uuid.Nil {
		badRequest(w, "itemId is required")
		return
	}
	start, ok := pricing.ParseDate(body.StartDate)
	if !ok {
		badRequest(w, "startDate must be a date (YYYY-MM-DD)")
		return
	}
	// An unparsable end date is treated like a missing one: one day.
	end, _ := pricing.ParseDate(body.EndDate)

	b, err := s.bookings.Create(r.Context(), domain.BookingRequest{
		UserID:    userID,
		ItemID:    body.ItemID,
		Vertical:  vertical,
		StartDate: start,
		EndDate:   end,
		Guests:    body.Guests,
		Customer: domain.Customer{
			Name:  body.Customer.Name,
			Email: string(body.Customer.Email),
			Phone: body.Customer.Phone,
		},
		Currency: body.Currency,
		Options:  body.Options,
		Fees:     body.Fees,
	})
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeOK(w, http.StatusCreated, "booking", b)
}

// ListBookings handles GET /api/bookings, newest first.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := s.bookings.List(r.Context(), userID, p)
	if err != nil {
		s.fail(w, r, err, "booking")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"bookings":   page.Items,
		"pagination": pagination{Page: p.Page, Limit: p.Limit, Total: page.Total},
	})
}
