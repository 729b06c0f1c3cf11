package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yanpin0524/mini-ecommerce-API/internal/auth"
)

func NewRouter(products *ProductHandler, carts *CartHandler, orders *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(auth.Middleware)

	r.Get("/health", healthHandler)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.With(RequireAdmin).Post("/", products.Create)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", products.Get)
			r.With(RequireAdmin).Put("/", products.Update)
			r.With(RequireAdmin).Patch("/", products.Patch)
			r.With(RequireAdmin).Delete("/", products.Delete)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/", carts.List)
		r.Post("/", carts.Add)
		r.Delete("/", carts.Clear)
		r.Delete("/{itemID}", carts.Remove)
		r.Patch("/{itemID}/quantity", carts.UpdateQuantity)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/", orders.List)
		r.Post("/", orders.Checkout)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", orders.Get)
			r.With(RequireAdmin).Delete("/", orders.Delete)
			r.With(RequireAdmin).Patch("/delivery-status", orders.UpdateDeliveryStatus)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "shop-service",
	})
}
