// internal/domain/product/entity.go
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringID is an identifier the backend may serialize as a JSON string or a
// bare number. The gateway keeps identifiers opaque strings internally.
type StringID string

// UnmarshalJSON accepts both `"7"` and `7`.
func (s *StringID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StringID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*s = StringID(num.String())
	return nil
}

// Product represents a catalog product. Identity is ID; all other fields are
// mutable through admin updates.
type Product struct {
	ID       StringID `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
}

// CreateRequest is the payload for creating a product.
type CreateRequest struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
}

// UpdateRequest is a partial product update; nil fields are left untouched.
type UpdateRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Category *string  `json:"category,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
}

// Query holds the optional list filters.
type Query struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}
