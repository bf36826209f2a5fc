// Package domain contains the core data types for the Wanderkart marketplace.
// It has no dependencies on other internal packages and is imported by every
// layer (pricing, repo, service, handler, apiclient).
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ServiceType discriminates the verticals that share catalog, wishlist and
// cart storage. The string values double as JSON keys on the wire.
type ServiceType string

const (
	ServiceStay          ServiceType = "stay"
	ServiceTour          ServiceType = "tour"
	ServiceAdventure     ServiceType = "adventure"
	ServiceVehicleRental ServiceType = "vehicleRental"
	ServiceProduct       ServiceType = "product"
)

// DefaultCurrency is used when neither the option nor the request names one.
const DefaultCurrency = "INR"

// ParseServiceType maps a wire value onto a known ServiceType.
func ParseServiceType(s string) (ServiceType, bool) {
	switch t := ServiceType(s); t {
	case ServiceStay, ServiceTour, ServiceAdventure, ServiceVehicleRental, ServiceProduct:
		return t, true
	}
	return "", false
}

// Bookable reports whether the type goes through the date-based booking flow.
// Products are bought through the cart only.
func (t ServiceType) Bookable() bool {
	return t != ServiceProduct && t != ""
}

// Wishlistable reports whether the type can be favourited.
func (t ServiceType) Wishlistable() bool {
	return t.Bookable()
}

// ParseVertical maps a booking URL segment ("stays", "vehicle-rentals", ...)
// onto its ServiceType.
func ParseVertical(segment string) (ServiceType, bool) {
	switch strings.ToLower(segment) {
	case "stays":
		return ServiceStay, true
	case "tours":
		return ServiceTour, true
	case "adventures":
		return ServiceAdventure, true
	case "vehicle-rentals":
		return ServiceVehicleRental, true
	}
	return "", false
}

// Option is a purchasable sub-unit of a bookable item: a room type, a tour
// tier, a vehicle model. ID may be empty for legacy listings, in which case
// Name identifies the option within its item.
type Option struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Tax       *float64 `json:"tax,omitempty"`
	Available int      `json:"available"`
	Currency  string   `json:"currency,omitempty"`
	Features  []string `json:"features,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// Key returns the identifier used for selections: ID when set, Name otherwise.
func (o Option) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.Name
}

// TaxOrZero returns the per-unit tax, treating a missing tax as zero.
func (o Option) TaxOrZero() float64 {
	if o.Tax == nil {
		return 0
	}
	return *o.Tax
}

// BookableItem is a stay, tour, adventure, vehicle rental or retail product.
type BookableItem struct {
	ID       uuid.UUID   `json:"_id"`
	Type     ServiceType `json:"type"`
	Name     string      `json:"name"`
	Category string      `json:"category,omitempty"`
	Location string      `json:"location,omitempty"`
	Images   []string    `json:"images,omitempty"`
	Options  []Option    `json:"options"`
	Rating   *float64    `json:"rating,omitempty"`
}

// FromPrice is the lowest option price, the figure shown on listing cards and
// used to price cart lines. Items without options cost nothing.
func (it BookableItem) FromPrice() (price float64, currency string) {
	for i, o := range it.Options {
		if i == 0 || o.Price < price {
			price, currency = o.Price, o.Currency
		}
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return price, currency
}

// Option looks up an option by its selection key.
func (it BookableItem) Option(key string) (Option, bool) {
	for _, o := range it.Options {
		if o.Key() == key {
			return o, true
		}
	}
	return Option{}, false
}

// ItemFilter narrows a catalog listing. Zero values mean "no filter".
type ItemFilter struct {
	Type  ServiceType
	Query string
}
