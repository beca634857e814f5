package domain

// Wishlist is the de-duplicated set of favorited products for one session.
// Membership is boolean: at most one entry per product id. Insertion order is
// preserved for display but carries no semantic weight.
type Wishlist struct {
	Products []Product `json:"products"`
}

// Toggle flips the product's membership: present products are removed, absent
// products are added. It returns the resulting membership state.
func (w *Wishlist) Toggle(p Product) bool {
	if w.Contains(p.ID) {
		w.Remove(p.ID)
		return false
	}
	w.Add(p)
	return true
}

// Add inserts the product if absent. Adding an existing product is a no-op.
func (w *Wishlist) Add(p Product) {
	if w.Contains(p.ID) {
		return
	}
	w.Products = append(w.Products, p)
}

// Remove deletes the product if present. Removing an absent product is a no-op.
func (w *Wishlist) Remove(productID int) {
	for i := range w.Products {
		if w.Products[i].ID == productID {
			w.Products = append(w.Products[:i], w.Products[i+1:]...)
			return
		}
	}
}

// Clear empties the wishlist unconditionally.
func (w *Wishlist) Clear() {
	w.Products = nil
}

// Contains reports whether the product id is favorited.
func (w *Wishlist) Contains(productID int) bool {
	for i := range w.Products {
		if w.Products[i].ID == productID {
			return true
		}
	}
	return false
}

// ItemCount returns the number of favorited products.
func (w *Wishlist) ItemCount() int {
	return len(w.Products)
}

// ByCategory returns the favorited products in the given category, in
// insertion order.
func (w *Wishlist) ByCategory(category string) []Product {
	var out []Product
	for _, p := range w.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of the wishlist, safe to hand to observers.
func (w *Wishlist) Clone() Wishlist {
	if w.Products == nil {
		return Wishlist{}
	}
	products := make([]Product, len(w.Products))
	copy(products, w.Products)
	return Wishlist{Products: products}
}
