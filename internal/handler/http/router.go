// Package http wires the storefront's REST surface: session auth,
// catalog browsing, and the per-session cart and wishlist.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storekit/storefront/pkg/health"
	"github.com/storekit/storefront/pkg/middleware"

	"github.com/storekit/storefront/internal/auth"
	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/store"
)

// RouterDeps carries everything the router needs to assemble handlers.
type RouterDeps struct {
	Sessions      *store.Manager
	Provider      catalog.Provider
	CatalogClient *catalog.Client
	JWT           *auth.JWTManager
	HealthHandler *health.Handler
	Logger        *slog.Logger
	PprofEnabled  bool
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if deps.PprofEnabled {
		middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)
	}

	authHandler := NewAuthHandler(deps.CatalogClient, deps.JWT, deps.Sessions, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Provider, deps.Logger)
	cartHandler := NewCartHandler(deps.Sessions, deps.Provider, deps.Logger)
	wishlistHandler := NewWishlistHandler(deps.Sessions, deps.Provider, deps.Logger)

	validate := func(token string) (*middleware.SessionClaims, error) {
		claims, err := deps.JWT.ValidateSessionToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.SessionClaims{SessionID: claims.SessionID, Username: claims.Username}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(ContentTypeJSON).Post("/login", authHandler.Login)
			r.With(middleware.Session(validate)).Post("/logout", authHandler.Logout)
		})

		// Catalog browsing is open; no session required.
		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.CacheControl(300))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{productID}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(validate))
			r.Use(ContentTypeJSON)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
			r.Delete("/items/{productID}/one", cartHandler.RemoveSingleUnit)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.Session(validate))

			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)

			r.Post("/{productID}/toggle", wishlistHandler.Toggle)
			r.Put("/{productID}", wishlistHandler.AddProduct)
			r.Delete("/{productID}", wishlistHandler.RemoveProduct)
		})
	})

	return r
}
