package http

import (
	"net/http"
	"time"

	"github.com/WasepSKT/commerce-web-sub003/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaintenanceAuth    bool
	MaintenanceProduct bool

	// external marketplace storefronts, surfaced to the UI
	ShopeeURL    string
	TokopediaURL string
}

type Handlers struct {
	Products *ProductHandler
	Carts    *CartHandler
	Checkout *CheckoutHandler
	Captcha  http.Handler
	Refresh  http.Handler
}

func NewRouter(cfg RouterConfig, h Handlers, collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(collector.Middleware)
	r.Use(UserIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"metrics": collector.Snapshot(),
		})
	})

	r.Get("/api/v1/links", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"shopee":    cfg.ShopeeURL,
			"tokopedia": cfg.TokopediaURL,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(Maintenance(cfg.MaintenanceProduct))
			r.Get("/products", h.Products.ListProducts)
			r.Get("/products/{id}", h.Products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Carts.GetCart)
			r.Post("/items", h.Carts.AddItem)
			r.Put("/items/{product_id}", h.Carts.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Carts.RemoveItem)
			r.Delete("/", h.Carts.ClearCart)
		})

		r.Get("/checkout/quote", h.Checkout.Quote)
		r.Post("/checkout", h.Checkout.Checkout)
	})

	r.Group(func(r chi.Router) {
		r.Use(Maintenance(cfg.MaintenanceAuth))
		r.Handle("/api/auth/refresh", h.Refresh)
	})
	r.Handle("/api/captcha/verify", h.Captcha)

	return r
}
