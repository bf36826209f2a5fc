package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// wishlistBody names the item under a key per vertical; exactly one is set.
type wishlistBody struct {
	StayID          *uuid.UUID `json:"stayId"`
	TourID          *uuid.UUID `json:"tourId"`
	AdventureID     *uuid.UUID `json:"adventureId"`
	VehicleRentalID *uuid.UUID `json:"vehicleRentalId"`
}

// target returns the single (kind, id) pair the body names.
func (b wishlistBody) target() (domain.ServiceType, uuid.UUID, bool) {
	var (
		kind  domain.ServiceType
		id    uuid.UUID
		count int
	)
	for k, v := range map[domain.ServiceType]*uuid.UUID{
		domain.ServiceStay:          b.StayID,
		domain.ServiceTour:          b.TourID,
		domain.ServiceAdventure:     b.AdventureID,
		domain.ServiceVehicleRental: b.VehicleRentalID,
	} {
		if v != nil {
			kind, id = k, *v
			count++
		}
	}
	return kind, id, count == 1
}

// ListWishlist handles GET /api/wishlist.
func (s *Server) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	entries, err := s.wishlist.List(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "wishlist")
		return
	}
	writeOK(w, http.StatusOK, "wishlist", entries)
}

// AddToWishlist handles POST /api/wishlist. Re-adding an item returns the
// existing entry.
func (s *Server) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body wishlistBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	kind, itemID, ok := body.target()
	if !ok {
		badRequest(w, "exactly one of stayId, tourId, adventureId or vehicleRentalId is required")
		return
	}

	entry, err := s.wishlist.Add(r.Context(), userID, itemID, kind)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeOK(w, http.StatusCreated, "entry", entry)
}

// RemoveFromWishlist handles DELETE /api/wishlist/{id}; id is the entry ID
// or the favourited item's ID.
func (s *Server) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.wishlist.Remove(r.Context(), userID, id); err != nil {
		s.fail(w, r, err, "wishlist entry")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}
