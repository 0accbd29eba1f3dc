package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okoshku/catalog-service/internal/service"
	"github.com/okoshku/catalog-service/pkg/health"
	"github.com/okoshku/catalog-service/pkg/middleware"
)

// RouterConfig holds the collaborators the router needs.
type RouterConfig struct {
	Service       *service.ProductService
	HealthHandler *health.Handler
	JWTSecret     string
	ServiceName   string
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	productHandler := NewProductHandler(cfg.Service, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Service, cfg.Logger)

	requireAdmin := []func(http.Handler) http.Handler{
		middleware.Auth(cfg.JWTSecret, cfg.Logger),
		middleware.RequireRole("admin"),
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public routes
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		// Admin-gated routes. The review route carries the same admin gate
		// as the other mutating routes, matching how the routes are wired
		// in the system this replaces.
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin...)

			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
			r.Post("/{id}/reviews", reviewHandler.CreateReview)
		})
	})

	return r
}
