package product

// FilterOutOfStock returns the snapshots with zero total inventory in input order.
// The result never shares a backing array with products.
func FilterOutOfStock(products []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(products))
	for _, p := range products {
		if p.OutOfStock() {
			out = append(out, p)
		}
	}
	return out
}
