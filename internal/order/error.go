package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotForming     = errors.New("order items can only change while forming")
	ErrMissingCancelReason = errors.New("cancel comment must be set for a cancellation status")
	ErrStatusConflict      = errors.New("order status changed concurrently")
	ErrNoItems             = errors.New("order has no line items")
	ErrInvalidAmount       = errors.New("line item amount must be positive")
	ErrUnknownStatus       = errors.New("unknown order status")
)

// InvalidTransitionError reports a target status not reachable from the
// order's current status.
type InvalidTransitionError struct {
	OrderID int64
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %d cannot switch status from %s to %s", e.OrderID, e.From, e.To)
}

// UnsuppliedProductsError blocks FORMING -> CREATED when line items
// reference products missing from the supplier's catalog.
type UnsuppliedProductsError struct {
	OrderID    int64
	ProductIDs []int64
}

func (e *UnsuppliedProductsError) Error() string {
	return fmt.Sprintf("order %d has products not supplied by its supplier: %v", e.OrderID, e.ProductIDs)
}

// PublishError means the status change was committed but the supplier was
// not notified. Order carries the persisted state so the caller can report
// it and arrange a resend.
type PublishError struct {
	Order *Order
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("order %d status committed but event publish failed: %v", e.Order.ID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
