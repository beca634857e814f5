package store

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/domain"
)

func testProduct(id int, price int64) domain.Product {
	return domain.Product{ID: id, Title: "product", Price: price, Category: "electronics"}
}

func TestCartStore_AddAndSnapshot(t *testing.T) {
	s := NewCartStore("sess-1")
	ctx := context.Background()

	snap := s.Add(ctx, testProduct(1, 10_00), 2)

	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, int64(20_00), snap.TotalAmount)
	require.Len(t, snap.Items, 1)
}

func TestCartStore_SnapshotIsDetached(t *testing.T) {
	s := NewCartStore("sess-1")
	ctx := context.Background()

	snap := s.Add(ctx, testProduct(1, 10_00), 1)
	snap.Items[0].Quantity = 42

	assert.Equal(t, 1, s.QuantityOf(1))
}

func TestCartStore_EmptySnapshotHasNonNilItems(t *testing.T) {
	s := NewCartStore("sess-1")
	snap := s.Snapshot()

	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
}

func TestCartStore_NotifiesObserversAfterMutation(t *testing.T) {
	s := NewCartStore("sess-1")

	var got []CartSnapshot
	s.Subscribe(func(_ context.Context, sessionID string, snap CartSnapshot) {
		assert.Equal(t, "sess-1", sessionID)
		got = append(got, snap)
	})

	ctx := context.Background()
	s.Add(ctx, testProduct(1, 5_00), 1)
	s.SetQuantity(ctx, testProduct(1, 5_00), 3)
	s.Clear(ctx)

	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].ItemCount)
	assert.Equal(t, 3, got[1].ItemCount)
	assert.Zero(t, got[2].ItemCount)
}

func TestCartStore_ConcurrentMutations(t *testing.T) {
	s := NewCartStore("sess-1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(ctx, testProduct(1, 1_00), 1)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 50, snap.ItemCount)
	assert.Equal(t, int64(50_00), snap.TotalAmount)
	assert.Len(t, snap.Items, 1)
}

func TestWishlistStore_ToggleReportsMembership(t *testing.T) {
	s := NewWishlistStore("sess-1")
	ctx := context.Background()

	added, snap := s.Toggle(ctx, testProduct(7, 3_00))
	assert.True(t, added)
	assert.Equal(t, 1, snap.ItemCount)

	added, snap = s.Toggle(ctx, testProduct(7, 3_00))
	assert.False(t, added)
	assert.Zero(t, snap.ItemCount)
}

func TestWishlistStore_NotifiesObservers(t *testing.T) {
	s := NewWishlistStore("sess-1")

	calls := 0
	s.Subscribe(func(_ context.Context, _ string, _ WishlistSnapshot) { calls++ })

	ctx := context.Background()
	s.Add(ctx, testProduct(1, 1_00))
	s.Remove(ctx, 1)

	assert.Equal(t, 2, calls)
}

func TestWishlistStore_ByCategory(t *testing.T) {
	s := NewWishlistStore("sess-1")
	ctx := context.Background()

	s.Add(ctx, domain.Product{ID: 1, Category: "electronics"})
	s.Add(ctx, domain.Product{ID: 2, Category: "jewelery"})

	got := s.ByCategory("jewelery")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	assert.NotNil(t, s.ByCategory("unknown"))
}

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(ttl, ObserverSet{}, slog.New(slog.DiscardHandler))
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newTestManager(time.Hour)

	s1, created := m.GetOrCreate("abc")
	assert.True(t, created)
	require.NotNil(t, s1.Cart)
	require.NotNil(t, s1.Wishlist)

	s2, created := m.GetOrCreate("abc")
	assert.False(t, created)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, m.Len())
}

func TestManager_CreateMintsUniqueIDs(t *testing.T) {
	m := newTestManager(time.Hour)

	a := m.Create("alice")
	b := m.Create("")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "alice", a.Username)
	assert.Empty(t, b.Username)
	assert.Equal(t, 2, m.Len())
}

func TestManager_Delete(t *testing.T) {
	m := newTestManager(time.Hour)
	s := m.Create("")

	m.Delete(s.ID)

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestManager_SweepDropsIdleSessions(t *testing.T) {
	m := newTestManager(10 * time.Minute)

	stale := m.Create("")
	fresh := m.Create("")

	m.mu.Lock()
	m.sessions[stale.ID].lastSeen = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	swept := m.sweep(time.Now())

	assert.Equal(t, 1, swept)
	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestManager_AttachesObserversAtCreation(t *testing.T) {
	var cartCalls, wishCalls int
	obs := ObserverSet{
		Cart:     []CartObserver{func(context.Context, string, CartSnapshot) { cartCalls++ }},
		Wishlist: []WishlistObserver{func(context.Context, string, WishlistSnapshot) { wishCalls++ }},
	}
	m := NewManager(time.Hour, obs, slog.New(slog.DiscardHandler))

	s := m.Create("")
	ctx := context.Background()
	s.Cart.Add(ctx, testProduct(1, 1_00), 1)
	s.Wishlist.Add(ctx, testProduct(1, 1_00))

	assert.Equal(t, 1, cartCalls)
	assert.Equal(t, 1, wishCalls)
}
