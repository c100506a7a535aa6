package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterConfig bundles the handlers and cross-cutting dependencies the router
// needs.
type RouterConfig struct {
	Cart          *CartHandler
	Preorder      *PreorderHandler
	Attribution   *AttributionHandler
	Wishlist      *WishlistHandler
	Checkout      *CheckoutHandler
	Health        *health.Handler
	Logger        *slog.Logger
	AllowedOrigin string
}

// NewRouter builds the chi router with the full middleware chain and all
// storefront routes mounted under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Delete("/", cfg.Cart.ClearCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{productId}", cfg.Cart.UpdateItemQuantity)
			r.Put("/items/{productId}/{variantId}", cfg.Cart.UpdateItemQuantity)
			r.Delete("/items/{productId}", cfg.Cart.RemoveItem)
			r.Delete("/items/{productId}/{variantId}", cfg.Cart.RemoveItem)
			r.Put("/discount", cfg.Cart.SetDiscount)
			r.Put("/visibility", cfg.Cart.SetVisibility)
		})

		r.Route("/preorder", func(r chi.Router) {
			r.Get("/", cfg.Preorder.GetCart)
			r.Delete("/", cfg.Preorder.Clear)
			r.Put("/item", cfg.Preorder.SetItem)
			r.Put("/item/quantity", cfg.Preorder.UpdateQuantity)
			r.Put("/discount", cfg.Preorder.SetDiscount)
			r.Put("/visibility", cfg.Preorder.SetVisibility)
		})

		r.Route("/attribution", func(r chi.Router) {
			r.Post("/resolve", cfg.Attribution.Resolve)
			r.Get("/", cfg.Attribution.Get)
			r.Delete("/", cfg.Attribution.Clear)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", cfg.Wishlist.List)
			r.Get("/{productId}", cfg.Wishlist.Contains)
			r.Put("/{productId}", cfg.Wishlist.Add)
			r.Delete("/{productId}", cfg.Wishlist.Remove)
		})

		r.Post("/checkout", cfg.Checkout.Submit)
	})

	return r
}
