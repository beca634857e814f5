package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backpack() Product {
	return Product{ID: 1, Title: "Fjallraven Backpack", Price: 10_00, Category: "men's clothing", Rating: 3.9}
}

func monitor() Product {
	return Product{ID: 2, Title: "Acer Monitor", Price: 25_00, Category: "electronics", Rating: 4.5}
}

// ============================================================================
// Cart.AddItem
// ============================================================================

func TestAddItem_NewProduct(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Product.ID)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestAddItem_MergesExistingProduct(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)
	c.AddItem(backpack(), 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItem_NonPositiveQuantityIsNoop(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 0)
	c.AddItem(backpack(), -5)

	assert.Empty(t, c.Items)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.AddItem(monitor(), 1)
	c.AddItem(backpack(), 1)
	c.AddItem(monitor(), 1)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Product.ID)
	assert.Equal(t, 1, c.Items[1].Product.ID)
}

func TestAddItem_NeverDuplicatesProductID(t *testing.T) {
	var c Cart
	for i := 0; i < 10; i++ {
		c.AddItem(backpack(), 1)
		c.AddItem(monitor(), 2)
	}

	seen := make(map[int]bool)
	for _, item := range c.Items {
		assert.False(t, seen[item.Product.ID], "duplicate line item for product %d", item.Product.ID)
		seen[item.Product.ID] = true
	}
	assert.Len(t, c.Items, 2)
}

// ============================================================================
// Cart.RemoveItem / RemoveSingleUnit
// ============================================================================

func TestRemoveItem_DeletesWholeLine(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 5)
	c.RemoveItem(1)

	assert.Empty(t, c.Items)
}

func TestRemoveItem_AbsentProductIsNoop(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)

	before := c.Clone()
	c.RemoveItem(99)

	assert.Equal(t, before.Items, c.Items)
}

func TestRemoveSingleUnit_Decrements(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 3)
	c.RemoveSingleUnit(1)

	assert.Equal(t, 2, c.QuantityOf(1))
}

func TestRemoveSingleUnit_RemovesAtOne(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)
	c.RemoveSingleUnit(1)

	assert.False(t, c.Contains(1))
	assert.Empty(t, c.Items)
}

func TestRemoveSingleUnit_AbsentProductIsNoop(t *testing.T) {
	var c Cart
	c.RemoveSingleUnit(7)
	assert.Empty(t, c.Items)
}

// ============================================================================
// Cart.SetQuantity
// ============================================================================

func TestSetQuantity_Existing(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)
	c.SetQuantity(backpack(), 7)

	assert.Equal(t, 7, c.QuantityOf(1))
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)
	c.SetQuantity(backpack(), 0)

	assert.Empty(t, c.Items)
}

func TestSetQuantity_NegativeRemoves(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 4)
	c.SetQuantity(backpack(), -2)

	assert.False(t, c.Contains(1))
}

func TestSetQuantity_AbsentProductAdds(t *testing.T) {
	var c Cart
	c.SetQuantity(monitor(), 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.QuantityOf(2))
}

// ============================================================================
// Quantity invariant
// ============================================================================

func TestQuantityAlwaysPositive(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)
	c.AddItem(monitor(), 1)
	c.SetQuantity(backpack(), 0)
	c.RemoveSingleUnit(2)
	c.AddItem(monitor(), -3)
	c.SetQuantity(monitor(), 5)
	c.RemoveSingleUnit(5)

	for _, item := range c.Items {
		assert.GreaterOrEqual(t, item.Quantity, 1)
	}
}

// ============================================================================
// Derived folds
// ============================================================================

func TestItemCount_SumsQuantities(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)
	c.AddItem(monitor(), 1)

	assert.Equal(t, 3, c.ItemCount())
}

func TestItemCount_EmptyCart(t *testing.T) {
	var c Cart
	assert.Zero(t, c.ItemCount())
}

func TestTotalAmount_SumsPriceTimesQuantity(t *testing.T) {
	// {backpack $10.00 x2, monitor $25.00 x1} => $45.00
	var c Cart
	c.AddItem(backpack(), 2)
	c.AddItem(monitor(), 1)

	assert.Equal(t, int64(45_00), c.TotalAmount())
	assert.Equal(t, 3, c.ItemCount())
}

func TestTotalAmount_EmptyCart(t *testing.T) {
	var c Cart
	assert.Zero(t, c.TotalAmount())
}

func TestTotalAmount_TracksMutations(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 1)
	c.AddItem(monitor(), 2)
	require.Equal(t, int64(60_00), c.TotalAmount())

	c.RemoveSingleUnit(2)
	assert.Equal(t, int64(35_00), c.TotalAmount())

	c.Clear()
	assert.Zero(t, c.TotalAmount())
}

// ============================================================================
// Queries and Clear
// ============================================================================

func TestContainsAndQuantityOf(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)

	assert.True(t, c.Contains(1))
	assert.Equal(t, 2, c.QuantityOf(1))
	assert.False(t, c.Contains(2))
	assert.Zero(t, c.QuantityOf(2))
}

func TestClear(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)
	c.AddItem(monitor(), 1)
	c.Clear()

	assert.Empty(t, c.Items)
	assert.Zero(t, c.ItemCount())
	assert.Zero(t, c.TotalAmount())
}

func TestClone_IsIndependent(t *testing.T) {
	var c Cart
	c.AddItem(backpack(), 2)

	cp := c.Clone()
	cp.Items[0].Quantity = 99

	assert.Equal(t, 2, c.Items[0].Quantity)
}
