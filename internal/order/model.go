package order

import (
	"github.com/google/uuid"
)

type Order struct {
	ID            int64
	Number        uuid.UUID
	Status        Status
	CancelComment *string
	UserID        int64
	SupplierID    int64
	Items         []LineItem
}

// LineItem ties a product to an order. Items are mutable only while the
// order is still FORMING.
type LineItem struct {
	OrderID   int64
	ProductID int64
	Amount    int64
}
