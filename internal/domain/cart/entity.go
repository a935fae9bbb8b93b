// internal/domain/cart/entity.go
package cart

// Line is one cart ledger entry. The ledger holds at most one line per
// product; quantities are always positive.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// AddRequest is the payload for adding a product to the cart.
type AddRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// QuantityRequest is the payload for replacing a line's quantity.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}
