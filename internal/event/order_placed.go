package event

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MessageType tags outbound order messages on factory_order_updates.
type MessageType string

const (
	MessageNewOrder  MessageType = "NEW_ORDER"
	MessageNewStatus MessageType = "NEW_STATUS"
)

var (
	ErrNoProducts   = errors.New("order event must carry at least one product")
	ErrBadLineTotal = errors.New("line total_cost does not match price * amount")
	ErrBadTotalCost = errors.New("order total_cost does not match sum of line totals")
)

// OrderLine is a denormalized line item snapshot: the receiving supplier
// system needs no further lookups.
type OrderLine struct {
	Title     string `json:"title"`
	Code      string `json:"code"`
	Amount    int64  `json:"amount"`
	Price     int64  `json:"price"`
	TotalCost int64  `json:"total_cost"`
}

// OrderSnapshot is the order body carried by a NEW_ORDER message.
type OrderSnapshot struct {
	Number    uuid.UUID   `json:"number"`
	Products  []OrderLine `json:"products"`
	TotalCost int64       `json:"total_cost"`
}

// OrderPlaced is the factory_order_updates envelope. Only NEW_ORDER is
// produced today; NEW_STATUS is part of the wire vocabulary for supplier
// systems that also receive status pushes.
type OrderPlaced struct {
	EventType   MessageType     `json:"event_type"`
	OrderNumber uuid.UUID       `json:"order_number"`
	NewOrder    *OrderSnapshot  `json:"new_order,omitempty"`
	NewStatus   *SupplierStatus `json:"new_status,omitempty"`
}

// NewOrderPlaced builds a NEW_ORDER event and checks its money invariants.
// A violation here is a bug in event construction, not recoverable input.
func NewOrderPlaced(number uuid.UUID, lines []OrderLine) (OrderPlaced, error) {
	if number == uuid.Nil {
		return OrderPlaced{}, ErrEmptyOrderNumber
	}
	if len(lines) == 0 {
		return OrderPlaced{}, ErrNoProducts
	}

	var total int64
	for _, l := range lines {
		if l.TotalCost != l.Price*l.Amount {
			return OrderPlaced{}, fmt.Errorf("%w: product %q", ErrBadLineTotal, l.Code)
		}
		total += l.TotalCost
	}

	return OrderPlaced{
		EventType:   MessageNewOrder,
		OrderNumber: number,
		NewOrder: &OrderSnapshot{
			Number:    number,
			Products:  lines,
			TotalCost: total,
		},
	}, nil
}
