// Package event defines the broker message contracts exchanged with
// supplier systems. Inbound payloads validate themselves before any
// handler sees them; outbound payloads validate on construction.
package event

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Broker topics. The three inbound topics are consumed under a single
// consumer group; factory_order_updates is the single outbound topic,
// keyed by supplier OGRN.
const (
	TopicSupplierPriceUpdates = "supplier_price_updates"
	TopicProductStockUpdates  = "product_remaining_stock_updates"
	TopicSupplierOrderUpdates = "supplier_order_updates"
	TopicFactoryOrderUpdates  = "factory_order_updates"
)

var (
	ErrEmptyOGRN        = errors.New("ogrn must not be empty")
	ErrEmptyProductCode = errors.New("product_code must not be empty")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidStock     = errors.New("available must not be negative")
	ErrInvalidProductID = errors.New("product_id must be positive")
	ErrEmptyOrderNumber = errors.New("order_number must not be empty")
	ErrUnknownStatus    = errors.New("unknown supplier order status")
	ErrNoCancelComment  = errors.New("cancel_comment must be set for a canceled order")
)

// SupplierPriceUpdate announces a new price for one supplier catalog entry.
//
//	{"ogrn": "159317825", "product_code": "156562", "price": 100}
type SupplierPriceUpdate struct {
	OGRN        string `json:"ogrn"`
	ProductCode string `json:"product_code"`
	Price       int64  `json:"price"`
}

func (e SupplierPriceUpdate) Validate() error {
	if e.OGRN == "" {
		return ErrEmptyOGRN
	}
	if e.ProductCode == "" {
		return ErrEmptyProductCode
	}
	if e.Price < 1 {
		return ErrInvalidPrice
	}
	return nil
}

// ProductStockUpdate announces a new remaining stock for a product.
//
//	{"product_id": 2, "available": 1000}
type ProductStockUpdate struct {
	ProductID int64 `json:"product_id"`
	Available int64 `json:"available"`
}

func (e ProductStockUpdate) Validate() error {
	if e.ProductID < 1 {
		return ErrInvalidProductID
	}
	if e.Available < 0 {
		return ErrInvalidStock
	}
	return nil
}

// SupplierStatus is the status vocabulary supplier systems speak. It is
// narrower than the internal order status set; the order service maps it.
type SupplierStatus string

const (
	SupplierStatusSendToSupplier SupplierStatus = "SEND_TO_SUPPLIER"
	SupplierStatusInProgress     SupplierStatus = "IN_PROGRESS"
	SupplierStatusInDelivery     SupplierStatus = "IN_DELIVERY"
	SupplierStatusDelivered      SupplierStatus = "DELIVERED"
	SupplierStatusCanceled       SupplierStatus = "CANCELED"
)

// SupplierOrderStatusUpdate reports the supplier-side progress of an order.
//
//	{"order_number": "bf1dd005-...", "status": "IN_PROGRESS", "cancel_comment": null}
type SupplierOrderStatusUpdate struct {
	OrderNumber   uuid.UUID      `json:"order_number"`
	Status        SupplierStatus `json:"status"`
	CancelComment *string        `json:"cancel_comment,omitempty"`
}

func (e SupplierOrderStatusUpdate) Validate() error {
	if e.OrderNumber == uuid.Nil {
		return ErrEmptyOrderNumber
	}
	switch e.Status {
	case SupplierStatusSendToSupplier, SupplierStatusInProgress,
		SupplierStatusInDelivery, SupplierStatusDelivered:
	case SupplierStatusCanceled:
		if e.CancelComment == nil || *e.CancelComment == "" {
			return ErrNoCancelComment
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, e.Status)
	}
	return nil
}
