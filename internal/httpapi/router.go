// Package httpapi exposes the order service over JSON endpoints. Request
// decoding, auth lookup, and the error-to-status mapping live here; the
// semantics live in the services.
package httpapi

import (
	"net/http"

	"postavka-be/internal/logger"
	"postavka-be/internal/middleware"
	"postavka-be/internal/order"

	"github.com/go-chi/chi/v5"
)

func NewRouter(orderSvc order.Service, jwtSecret []byte) http.Handler {
	h := &handler{orders: orderSvc}

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Auth(jwtSecret))
	r.Use(middleware.RateLimit)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Post("/products", h.addProducts)
			r.Delete("/products", h.removeProducts)
			r.Patch("/status", h.setStatus)
		})
	})

	return r
}
