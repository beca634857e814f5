package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/pkg/middleware"

	"github.com/storekit/storefront/internal/store"
)

func setupWishlistRouter(handler *WishlistHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.Session(testValidator(testJWT())))

		r.Get("/", handler.GetWishlist)
		r.Delete("/", handler.ClearWishlist)

		r.Post("/{productID}/toggle", handler.Toggle)
		r.Put("/{productID}", handler.AddProduct)
		r.Delete("/{productID}", handler.RemoveProduct)
	})
	return r
}

func decodeWishlistSnapshot(t *testing.T, rec *httptest.ResponseRecorder) store.WishlistSnapshot {
	t.Helper()
	resp := decodeEnvelope(t, rec)
	require.Nil(t, resp.Error)
	var snap store.WishlistSnapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	return snap
}

func TestGetWishlist_RequiresSession(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	rec := doJSON(router, http.MethodGet, "/api/v1/wishlist", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetWishlist_EmptyForFreshSession(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	rec := doJSON(router, http.MethodGet, "/api/v1/wishlist", "guest-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeWishlistSnapshot(t, rec)
	assert.Empty(t, snap.Products)
	assert.Zero(t, snap.ItemCount)
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	rec := doJSON(router, http.MethodPost, "/api/v1/wishlist/1/toggle", "guest-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var first ToggleResponse
	resp := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, &first))
	assert.True(t, first.InWishlist)
	assert.Equal(t, 1, first.Wishlist.ItemCount)

	rec = doJSON(router, http.MethodPost, "/api/v1/wishlist/1/toggle", "guest-1", nil)

	var second ToggleResponse
	resp = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, &second))
	assert.False(t, second.InWishlist)
	assert.Zero(t, second.Wishlist.ItemCount)
}

func TestToggle_UnknownProduct(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	rec := doJSON(router, http.MethodPost, "/api/v1/wishlist/999/toggle", "guest-1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddProduct_Idempotent(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	doJSON(router, http.MethodPut, "/api/v1/wishlist/1", "guest-1", nil)
	rec := doJSON(router, http.MethodPut, "/api/v1/wishlist/1", "guest-1", nil)

	snap := decodeWishlistSnapshot(t, rec)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestRemoveProduct_Idempotent(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	doJSON(router, http.MethodPut, "/api/v1/wishlist/1", "guest-1", nil)
	doJSON(router, http.MethodDelete, "/api/v1/wishlist/1", "guest-1", nil)
	rec := doJSON(router, http.MethodDelete, "/api/v1/wishlist/1", "guest-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeWishlistSnapshot(t, rec)
	assert.Zero(t, snap.ItemCount)
}

func TestGetWishlist_CategoryFilter(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	doJSON(router, http.MethodPut, "/api/v1/wishlist/1", "guest-1", nil)
	doJSON(router, http.MethodPut, "/api/v1/wishlist/2", "guest-1", nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/wishlist?category=electronics", "guest-1", nil)

	snap := decodeWishlistSnapshot(t, rec)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 2, snap.Products[0].ID)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestClearWishlist(t *testing.T) {
	handler := NewWishlistHandler(testSessions(), &fakeProvider{products: testCatalogProducts()}, testLogger())
	router := setupWishlistRouter(handler)

	doJSON(router, http.MethodPut, "/api/v1/wishlist/1", "guest-1", nil)
	doJSON(router, http.MethodPut, "/api/v1/wishlist/2", "guest-1", nil)
	rec := doJSON(router, http.MethodDelete, "/api/v1/wishlist", "guest-1", nil)

	snap := decodeWishlistSnapshot(t, rec)
	assert.Empty(t, snap.Products)
}
