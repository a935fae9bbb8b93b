// internal/domain/cart/ledger.go
package cart

import "encoding/json"

// Pure ledger operations. Callers own persistence; every function returns the
// new line list and never mutates its input aliases in surprising ways.

// Add merges a line into the ledger: an existing line for the same product
// has its quantity incremented, otherwise the line is appended. Quantity is
// clamped to a minimum of 1 so the ledger never holds a non-positive line.
func Add(items []Line, line Line) []Line {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range items {
		if items[i].ProductID == line.ProductID {
			items[i].Quantity += line.Quantity
			return items
		}
	}
	return append(items, line)
}

// SetQuantity replaces the quantity of the matching line, clamped to a
// minimum of 1. Unknown products are left untouched.
func SetQuantity(items []Line, productID string, quantity int) []Line {
	if quantity < 1 {
		quantity = 1
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return items
}

// Remove filters out the line for productID.
func Remove(items []Line, productID string) []Line {
	out := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// Encode serializes the ledger for durable storage.
func Encode(items []Line) string {
	if items == nil {
		items = []Line{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Decode rehydrates a persisted ledger. Corrupt or absent data yields an
// empty ledger, never an error.
func Decode(raw string) []Line {
	if raw == "" {
		return []Line{}
	}
	var items []Line
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Line{}
	}
	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}
	return items
}
