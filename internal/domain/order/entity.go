// internal/domain/order/entity.go
package order

import (
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

// Status represents the order status as the backend reports it.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusShipped    Status = "SHIPPED"
	StatusCancelled  Status = "CANCELLED"
	StatusDelivered  Status = "DELIVERED"
	StatusProcessing Status = "PROCESSING"
	StatusReturned   Status = "RETURNED"
	StatusOnHold     Status = "ON_HOLD"
)

// AllStatuses lists every status the backend can report.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusCancelled,
	StatusDelivered,
	StatusProcessing,
	StatusReturned,
	StatusOnHold,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the gateway must refuse further status edits.
// Shipped and cancelled orders are frozen from the client's perspective.
func (s Status) IsTerminal() bool {
	return s == StatusShipped || s == StatusCancelled
}

// CanTransitionTo is the client-side advisory guard for status edits. The
// backend remains authoritative and may still reject an allowed transition.
// Cancellation is only reachable from pending.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() || s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return s == StatusPending
	}
	return true
}

// Line is a single line of a placed order.
type Line struct {
	ProductID product.StringID `json:"productId"`
	Name      string           `json:"name,omitempty"`
	Price     float64          `json:"price,omitempty"`
	Quantity  int              `json:"quantity"`
}

// LineTotal is the extended price of the line.
func (l Line) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Order represents a placed order. Orders are created by checkout and only
// ever mutated through status updates; the gateway never deletes one.
type Order struct {
	ID            product.StringID `json:"id"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName,omitempty"`
	Status        Status           `json:"status"`
	Items         []Line           `json:"items"`
	TotalAmount   float64          `json:"totalAmount"`
}
