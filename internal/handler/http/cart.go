package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/storefront/pkg/httputil"
	"github.com/storekit/storefront/pkg/validator"

	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/domain"
	"github.com/storekit/storefront/internal/store"
)

// CartHandler handles HTTP requests for cart endpoints. Product
// details are resolved through the catalog so clients only ever send
// product ids, never prices.
type CartHandler struct {
	sessions *store.Manager
	provider catalog.Provider
	logger   *slog.Logger
}

func NewCartHandler(sessions *store.Manager, provider catalog.Provider, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		provider: provider,
		logger:   logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for setting an item's
// absolute quantity. Zero empties the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (h *CartHandler) session(r *http.Request) *store.Session {
	sess, _ := h.sessions.GetOrCreate(sessionID(r))
	return sess
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	snap := h.session(r).Cart.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.provider.Product(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	snap := h.session(r).Cart.Add(r.Context(), product, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess := h.session(r)

	// The catalog lookup is only needed when the line does not exist
	// yet; setting a positive quantity on an absent product adds it.
	product := domain.Product{ID: id}
	if req.Quantity > 0 && !sess.Cart.Contains(id) {
		var err error
		product, err = h.provider.Product(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	snap := sess.Cart.SetQuantity(r.Context(), product, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	snap := h.session(r).Cart.Remove(r.Context(), id)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// RemoveSingleUnit handles DELETE /api/v1/cart/items/{productID}/one
func (h *CartHandler) RemoveSingleUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	snap := h.session(r).Cart.RemoveSingleUnit(r.Context(), id)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	snap := h.session(r).Cart.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}
