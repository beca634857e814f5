package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/storefront/pkg/httputil"

	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/store"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	sessions *store.Manager
	provider catalog.Provider
	logger   *slog.Logger
}

func NewWishlistHandler(sessions *store.Manager, provider catalog.Provider, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions,
		provider: provider,
		logger:   logger,
	}
}

// ToggleResponse reports the membership outcome of a toggle alongside
// the resulting wishlist.
type ToggleResponse struct {
	InWishlist bool                   `json:"in_wishlist"`
	Wishlist   store.WishlistSnapshot `json:"wishlist"`
}

func (h *WishlistHandler) session(r *http.Request) *store.Session {
	sess, _ := h.sessions.GetOrCreate(sessionID(r))
	return sess
}

// GetWishlist handles GET /api/v1/wishlist[?category=]
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)

	if category := r.URL.Query().Get("category"); category != "" {
		products := sess.Wishlist.ByCategory(category)
		snap := store.WishlistSnapshot{Products: products, ItemCount: len(products)}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Wishlist.Snapshot()})
}

// Toggle handles POST /api/v1/wishlist/{productID}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	product, err := h.provider.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	added, snap := h.session(r).Wishlist.Toggle(r.Context(), product)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleResponse{
		InWishlist: added,
		Wishlist:   snap,
	}})
}

// AddProduct handles PUT /api/v1/wishlist/{productID}
func (h *WishlistHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	product, err := h.provider.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	snap := h.session(r).Wishlist.Add(r.Context(), product)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// RemoveProduct handles DELETE /api/v1/wishlist/{productID}
func (h *WishlistHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	snap := h.session(r).Wishlist.Remove(r.Context(), id)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	snap := h.session(r).Wishlist.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}
