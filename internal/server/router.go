package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"phonestore/internal/catalog"
	"phonestore/internal/infrastructure/metrics"
	"phonestore/internal/order"
	phonecontroller "phonestore/internal/phone/controller"
)

const requestTimeout = 15 * time.Second

// Handlers groups everything the router mounts.
type Handlers struct {
	Catalog *catalog.Controller
	Phones  *phonecontroller.PhoneController
	Orders  *order.Module
	Metrics *metrics.Metrics
	// AdminGate guards every /admin route.
	AdminGate func(http.Handler) http.Handler
}

func NewRouter(h Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.Metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	r.Get("/catalog", h.Catalog.List)
	r.Post("/checkout", h.Orders.Checkout.Checkout)
	r.Post("/webhooks/payment", h.Orders.Webhook.HandlePaymentEvent)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.AdminGate)

		r.Get("/phones", h.Phones.List)
		r.Post("/phones", h.Phones.Create)
		r.Put("/phones", h.Phones.Update)
		r.Delete("/phones", h.Phones.Delete)

		r.Get("/orders", h.Orders.Admin.List)
		r.Get("/orders/{id}", h.Orders.Admin.Get)
		r.Post("/orders/{id}/phones", h.Orders.Admin.AssignPhone)
		r.Post("/orders/{id}/status", h.Orders.Admin.Advance)
	})

	logger.Debug("routes registered")
	return r
}
