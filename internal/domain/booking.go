package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusConfirmed is the only status a booking is created with;
// payment and cancellation flows live outside this service.
const BookingStatusConfirmed = "confirmed"

// Customer is the contact attached to a booking.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingOption is one selected option on a booking. Price and Taxes are
// per-unit, per-day amounts.
type BookingOption struct {
	OptionID   string  `json:"optionId"`
	OptionName string  `json:"optionName"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Taxes      float64 `json:"taxes"`
}

// BookingRequest is the validated-by-shape input to BookingService.Create.
type BookingRequest struct {
	UserID    uuid.UUID
	ItemID    uuid.UUID
	Vertical  ServiceType
	StartDate time.Time
	EndDate   time.Time
	Guests    int
	Customer  Customer
	Currency  string
	Options   []BookingOption
	Fees      float64
}

// Booking is a confirmed reservation of one or more options of an item over
// a date range. Subtotal, Taxes and Total mirror the pricing summary;
// GrandTotal adds Fees.
type Booking struct {
	ID         uuid.UUID       `json:"_id"`
	UserID     uuid.UUID       `json:"userId"`
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   ServiceType     `json:"itemType"`
	ItemName   string          `json:"itemName"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	Days       int             `json:"days"`
	Guests     int             `json:"guests"`
	Customer   Customer        `json:"customer"`
	Currency   string          `json:"currency"`
	Options    []BookingOption `json:"options"`
	Subtotal   float64         `json:"subtotal"`
	Taxes      float64         `json:"taxes"`
	Fees       float64         `json:"fees"`
	Total      float64         `json:"total"`
	GrandTotal float64         `json:"grandTotal"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BookingExportRow is a single row in a bookings export.
// It is a flat, denormalized view: one row per booked option, with booking
// fields repeated on every row.
type BookingExportRow struct {
	BookingID  string
	ItemType   string
	ItemName   string
	StartDate  string // "2006-01-02"
	EndDate    string // "2006-01-02"
	Days       int
	Guests     int
	Customer   string
	OptionName string
	Quantity   int
	UnitPrice  float64
	UnitTax    float64
	Currency   string
	GrandTotal float64
	CreatedAt  time.Time
}
