package handler

import (
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/service"
)

// ListItems handles GET /api/items.
// Supports ?type=, ?q= and the usual ?page= / ?limit= (defaults 1 / 20, max 100).
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	var typ, q *string
	if err := runtime.BindQueryParameter("form", true, false, "type", r.URL.Query(), &typ); err != nil {
		badRequest(w, "invalid type")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		badRequest(w, "invalid q")
		return
	}

	var f domain.ItemFilter
	if typ != nil {
		f.Type = domain.ServiceType(*typ)
	}
	if q != nil {
		f.Query = strings.TrimSpace(*q)
	}

	page, err := s.catalog.List(r.Context(), f, p)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"items":      page.Items,
		"pagination": pagination{Page: p.Page, Limit: p.Limit, Total: page.Total},
	})
}

// GetItem handles GET /api/items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	item, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeOK(w, http.StatusOK, "item", item)
}

type quoteBody struct {
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
	Selections map[string]int `json:"selections"`
}

// QuoteItem handles POST /api/items/{id}/quote, pricing a selection with
// the same engine bookings use.
func (s *Server) QuoteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body quoteBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}

	sum, err := s.catalog.Quote(r.Context(), id, service.QuoteRequest{
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
		Selections: body.Selections,
	})
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeOK(w, http.StatusOK, "summary", sum)
}
