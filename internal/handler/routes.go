package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts every endpoint of the API on a chi router.
// Cross-cutting middleware (request IDs, logging, CORS, body limits) is
// applied by the caller so tests can exercise the routes bare.
func NewRouter(s *Server) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/logout", s.Logout)

		r.Get("/items", s.ListItems)
		r.Get("/items/{id}", s.GetItem)
		r.Post("/items/{id}/quote", s.QuoteItem)

		r.Group(func(r chi.Router) {
			r.Use(s.sessions.RequireUser)

			r.Get("/auth/me", s.Me)

			r.Get("/wishlist", s.ListWishlist)
			r.Post("/wishlist", s.AddToWishlist)
			r.Delete("/wishlist/{id}", s.RemoveFromWishlist)

			r.Get("/cart", s.ListCart)
			r.Post("/cart", s.AddToCart)
			r.Post("/cart/checkout", s.Checkout)
			r.Patch("/cart/{id}", s.UpdateCartLine)
			r.Delete("/cart/{id}", s.RemoveCartLine)

			r.Get("/bookings", s.ListBookings)
			r.Get("/bookings/export", s.ExportBookings)
			r.Post("/bookings/{vertical}", s.CreateBooking)
		})
	})
	return r
}
