package store

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storekit/storefront/internal/domain"
)

var wishlistMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_wishlist_mutations_total",
		Help: "Total number of wishlist mutations by operation.",
	},
	[]string{"operation"},
)

// WishlistSnapshot is an immutable view of a wishlist.
type WishlistSnapshot struct {
	Products  []domain.Product `json:"products"`
	ItemCount int              `json:"item_count"`
}

// WishlistObserver is invoked after every successful wishlist mutation.
type WishlistObserver func(ctx context.Context, sessionID string, snap WishlistSnapshot)

// WishlistStore wraps a single session's wishlist with mutual exclusion.
type WishlistStore struct {
	mu        sync.Mutex
	sessionID string
	wishlist  domain.Wishlist
	observers []WishlistObserver
}

func NewWishlistStore(sessionID string) *WishlistStore {
	return &WishlistStore{sessionID: sessionID}
}

func (s *WishlistStore) Subscribe(fn WishlistObserver) {
	s.observers = append(s.observers, fn)
}

// Toggle flips membership for the product and reports whether it is
// present after the call.
func (s *WishlistStore) Toggle(ctx context.Context, p domain.Product) (bool, WishlistSnapshot) {
	s.mu.Lock()
	added := s.wishlist.Toggle(p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartOp := "toggle_off"
	if added {
		cartOp = "toggle_on"
	}
	wishlistMutationsTotal.WithLabelValues(cartOp).Inc()
	s.notify(ctx, snap)
	return added, snap
}

func (s *WishlistStore) Add(ctx context.Context, p domain.Product) WishlistSnapshot {
	s.mu.Lock()
	s.wishlist.Add(p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	wishlistMutationsTotal.WithLabelValues("add").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *WishlistStore) Remove(ctx context.Context, productID int) WishlistSnapshot {
	s.mu.Lock()
	s.wishlist.Remove(productID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	wishlistMutationsTotal.WithLabelValues("remove").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *WishlistStore) Clear(ctx context.Context) WishlistSnapshot {
	s.mu.Lock()
	s.wishlist.Clear()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	wishlistMutationsTotal.WithLabelValues("clear").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *WishlistStore) Snapshot() WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *WishlistStore) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Contains(productID)
}

func (s *WishlistStore) ByCategory(category string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := s.wishlist.ByCategory(category)
	if products == nil {
		products = []domain.Product{}
	}
	return products
}

func (s *WishlistStore) snapshotLocked() WishlistSnapshot {
	clone := s.wishlist.Clone()
	products := clone.Products
	if products == nil {
		products = []domain.Product{}
	}
	return WishlistSnapshot{
		Products:  products,
		ItemCount: clone.ItemCount(),
	}
}

func (s *WishlistStore) notify(ctx context.Context, snap WishlistSnapshot) {
	for _, fn := range s.observers {
		fn(ctx, s.sessionID, snap)
	}
}
