package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/storefront/pkg/httputil"

	"github.com/storekit/storefront/internal/catalog"
)

// CatalogHandler exposes the upstream product catalog read-only.
type CatalogHandler struct {
	provider catalog.Provider
	logger   *slog.Logger
}

func NewCatalogHandler(provider catalog.Provider, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{provider: provider, logger: logger}
}

// ListProducts handles GET /api/v1/catalog/products[?category=]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		products, err := h.provider.ProductsByCategory(r.Context(), category)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
		return
	}

	products, err := h.provider.Products(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/catalog/products/{productID}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	product, err := h.provider.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.provider.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}
