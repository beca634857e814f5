package domain

// LineItem pairs a product with a cart quantity. A cart holds at most one
// line item per product id, and every stored quantity is >= 1.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the ordered collection of line items for one session. Items keep
// insertion order. All mutations are total functions: out-of-range quantities
// are normalized, never rejected, so no operation returns an error.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem merges quantity into an existing line item for the product, or
// appends a new one. Adding a non-positive quantity is a no-op.
func (c *Cart) AddItem(p Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := c.findIndex(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}
	c.Items = append(c.Items, LineItem{Product: p, Quantity: quantity})
}

// RemoveItem deletes the whole line item for the product id, regardless of
// quantity. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID int) {
	if i := c.findIndex(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// RemoveSingleUnit decrements the quantity for the product id by one. When the
// quantity would reach zero the line item is removed entirely.
func (c *Cart) RemoveSingleUnit(productID int) {
	i := c.findIndex(productID)
	if i < 0 {
		return
	}
	if c.Items[i].Quantity <= 1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity--
}

// SetQuantity sets the absolute quantity for the product. A quantity <= 0
// removes the line item; setting a positive quantity for an absent product
// adds it.
func (c *Cart) SetQuantity(p Product, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(p.ID)
		return
	}
	if i := c.findIndex(p.ID); i >= 0 {
		c.Items[i].Quantity = quantity
		return
	}
	c.Items = append(c.Items, LineItem{Product: p, Quantity: quantity})
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = nil
}

// Contains reports whether the cart holds a line item for the product id.
func (c *Cart) Contains(productID int) bool {
	return c.findIndex(productID) >= 0
}

// QuantityOf returns the quantity for the product id, or 0 if absent.
func (c *Cart) QuantityOf(productID int) int {
	if i := c.findIndex(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// ItemCount returns the total number of units in the cart, recomputed as a
// fold over the line items on every call.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalAmount returns the total price of all items in the cart (in cents),
// recomputed on every call.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// Clone returns a deep copy of the cart, safe to hand to observers.
func (c *Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// findIndex returns the index of the line item matching the product id, or -1.
// O(n) scan; carts are bounded by catalog size so this is fine.
func (c *Cart) findIndex(productID int) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
