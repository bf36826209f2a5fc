package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one item in a user's cart. Item is populated on reads so the
// client can render the line without a second lookup.
type CartLine struct {
	ID       uuid.UUID     `json:"_id"`
	ItemID   uuid.UUID     `json:"itemId"`
	ItemType ServiceType   `json:"itemType"`
	Quantity int           `json:"quantity"`
	Item     *BookableItem `json:"item,omitempty"`
	AddedAt  time.Time     `json:"addedAt"`
}

// Keys returns the line ID and the item ID; either addresses the line.
func (l CartLine) Keys() []string {
	keys := make([]string, 0, 2)
	if l.ID != uuid.Nil {
		keys = append(keys, l.ID.String())
	}
	if l.ItemID != uuid.Nil {
		keys = append(keys, l.ItemID.String())
	}
	return keys
}

// OrderLine is a priced copy of a cart line taken at checkout.
type OrderLine struct {
	ItemID    uuid.UUID   `json:"itemId"`
	ItemType  ServiceType `json:"itemType"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice float64     `json:"unitPrice"`
	LineTotal float64     `json:"lineTotal"`
}

// Order is the result of checking out a cart.
type Order struct {
	ID        uuid.UUID   `json:"_id"`
	UserID    uuid.UUID   `json:"userId"`
	Currency  string      `json:"currency"`
	Total     float64     `json:"total"`
	Lines     []OrderLine `json:"lines"`
	CreatedAt time.Time   `json:"createdAt"`
}
