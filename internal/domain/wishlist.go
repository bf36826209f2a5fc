package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WishlistEntry is one favourited item. Entries from all verticals share one
// storage shape; Kind says which vertical Item belongs to.
//
// On the wire an entry looks like
//
//	{"_id": "...", "type": "stay", "stay": {...}, "addedAt": "..."}
//
// with the item nested under a key named after its type.
type WishlistEntry struct {
	ID      uuid.UUID
	Kind    ServiceType
	Item    BookableItem
	AddedAt *time.Time
}

// Keys returns every identifier the entry can be addressed by: its own ID and
// the nested item's ID. Placeholder entries created before the server confirms
// have only the item ID.
func (e WishlistEntry) Keys() []string {
	keys := make([]string, 0, 2)
	if e.ID != uuid.Nil {
		keys = append(keys, e.ID.String())
	}
	if e.Item.ID != uuid.Nil {
		keys = append(keys, e.Item.ID.String())
	}
	return keys
}

// MarshalJSON writes the polymorphic wire shape.
func (e WishlistEntry) MarshalJSON() ([]byte, error) {
	if !e.Kind.Wishlistable() {
		return nil, fmt.Errorf("domain.WishlistEntry: unsupported kind %q", e.Kind)
	}
	out := map[string]any{
		"_id":          e.ID,
		"type":         e.Kind,
		string(e.Kind): e.Item,
	}
	if e.AddedAt != nil {
		out["addedAt"] = e.AddedAt.UTC()
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts "_id" or "id" for the entry identifier and infers the
// kind from the nested item key when "type" is absent.
func (e *WishlistEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out WishlistEntry
	for _, k := range []string{"_id", "id"} {
		if v, ok := raw[k]; ok {
			if err := json.Unmarshal(v, &out.ID); err != nil {
				return fmt.Errorf("domain.WishlistEntry: %s: %w", k, err)
			}
			break
		}
	}

	if v, ok := raw["type"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("domain.WishlistEntry: type: %w", err)
		}
		out.Kind = ServiceType(s)
	} else {
		for _, k := range []ServiceType{ServiceStay, ServiceTour, ServiceAdventure, ServiceVehicleRental} {
			if _, ok := raw[string(k)]; ok {
				out.Kind = k
				break
			}
		}
	}
	if !out.Kind.Wishlistable() {
		return errors.New("domain.WishlistEntry: missing or unsupported type")
	}

	if v, ok := raw[string(out.Kind)]; ok {
		if err := json.Unmarshal(v, &out.Item); err != nil {
			return fmt.Errorf("domain.WishlistEntry: %s: %w", out.Kind, err)
		}
	}
	if out.Item.Type == "" {
		out.Item.Type = out.Kind
	}

	if v, ok := raw["addedAt"]; ok && string(v) != "null" {
		var t time.Time
		if err := json.Unmarshal(v, &t); err != nil {
			return fmt.Errorf("domain.WishlistEntry: addedAt: %w", err)
		}
		out.AddedAt = &t
	}

	*e = out
	return nil
}
