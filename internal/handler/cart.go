package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

type addToCartBody struct {
	ItemID   uuid.UUID `json:"itemId"`
	ItemType string    `json:"itemType"`
	Quantity *int      `json:"quantity"`
}

type cartQuantityBody struct {
	Quantity *int `json:"quantity"`
}

// ListCart handles GET /api/cart.
func (s *Server) ListCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	lines, err := s.cart.List(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "cart")
		return
	}
	writeOK(w, http.StatusOK, "cart", lines)
}

// AddToCart handles POST /api/cart. Quantity defaults to 1.
func (s *Server) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body addToCartBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	if body.ItemID == uuid.Nil {
		badRequest(w, "itemId is required")
		return
	}
	var itemType domain.ServiceType
	if body.ItemType != "" {
		t, known := domain.ParseServiceType(body.ItemType)
		if !known {
			badRequest(w, "unknown itemType "+body.ItemType)
			return
		}
		itemType = t
	}
	qty := 1
	if body.Quantity != nil {
		qty = *body.Quantity
	}

	line, err := s.cart.Add(r.Context(), userID, body.ItemID, itemType, qty)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeOK(w, http.StatusCreated, "line", line)
}

// UpdateCartLine handles PATCH /api/cart/{id}.
func (s *Server) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body cartQuantityBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	if body.Quantity == nil {
		badRequest(w, "quantity is required")
		return
	}

	line, err := s.cart.SetQuantity(r.Context(), userID, id, *body.Quantity)
	if err != nil {
		s.fail(w, r, err, "cart line")
		return
	}
	writeOK(w, http.StatusOK, "line", line)
}

// RemoveCartLine handles DELETE /api/cart/{id}.
func (s *Server) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.cart.Remove(r.Context(), userID, id); err != nil {
		s.fail(w, r, err, "cart line")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

// Checkout handles POST /api/cart/checkout.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	order, err := s.cart.Checkout(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "cart")
		return
	}
	writeOK(w, http.StatusCreated, "order", order)
}
