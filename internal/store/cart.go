// Package store holds the in-memory session state: one cart and one
// wishlist per session, guarded by a mutex and observed for changes.
package store

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storekit/storefront/internal/domain"
)

var cartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Total number of cart mutations by operation.",
	},
	[]string{"operation"},
)

// CartSnapshot is an immutable view of a cart handed to readers and
// observers. The derived totals are recomputed on every snapshot.
type CartSnapshot struct {
	Items       []domain.LineItem `json:"items"`
	ItemCount   int               `json:"item_count"`
	TotalAmount int64             `json:"total_amount"`
}

// CartObserver is invoked after every successful cart mutation with a
// snapshot of the resulting state. Observers must not block.
type CartObserver func(ctx context.Context, sessionID string, snap CartSnapshot)

// CartStore wraps a single session's cart with mutual exclusion.
type CartStore struct {
	mu        sync.Mutex
	sessionID string
	cart      domain.Cart
	observers []CartObserver
}

func NewCartStore(sessionID string) *CartStore {
	return &CartStore{sessionID: sessionID}
}

// Subscribe registers an observer. Not safe to call concurrently with
// mutations; wire observers up at session creation.
func (s *CartStore) Subscribe(fn CartObserver) {
	s.observers = append(s.observers, fn)
}

func (s *CartStore) Add(ctx context.Context, p domain.Product, quantity int) CartSnapshot {
	s.mu.Lock()
	s.cart.AddItem(p, quantity)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartMutationsTotal.WithLabelValues("add").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *CartStore) Remove(ctx context.Context, productID int) CartSnapshot {
	s.mu.Lock()
	s.cart.RemoveItem(productID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartMutationsTotal.WithLabelValues("remove").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *CartStore) RemoveSingleUnit(ctx context.Context, productID int) CartSnapshot {
	s.mu.Lock()
	s.cart.RemoveSingleUnit(productID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartMutationsTotal.WithLabelValues("remove_single").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *CartStore) SetQuantity(ctx context.Context, p domain.Product, quantity int) CartSnapshot {
	s.mu.Lock()
	s.cart.SetQuantity(p, quantity)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartMutationsTotal.WithLabelValues("set_quantity").Inc()
	s.notify(ctx, snap)
	return snap
}

func (s *CartStore) Clear(ctx context.Context) CartSnapshot {
	s.mu.Lock()
	s.cart.Clear()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	cartMutationsTotal.WithLabelValues("clear").Inc()
	s.notify(ctx, snap)
	return snap
}

// Snapshot returns the current cart state without mutating it.
func (s *CartStore) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartStore) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Contains(productID)
}

func (s *CartStore) QuantityOf(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityOf(productID)
}

func (s *CartStore) snapshotLocked() CartSnapshot {
	clone := s.cart.Clone()
	items := clone.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartSnapshot{
		Items:       items,
		ItemCount:   clone.ItemCount(),
		TotalAmount: clone.TotalAmount(),
	}
}

func (s *CartStore) notify(ctx context.Context, snap CartSnapshot) {
	for _, fn := range s.observers {
		fn(ctx, s.sessionID, snap)
	}
}
