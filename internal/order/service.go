package order

import (
	"context"
	"fmt"
	"sort"

	"postavka-be/internal/event"
	"postavka-be/internal/product"
	"postavka-be/internal/supplier"
)

// EventPublisher notifies the supplier's system about a placed order.
// The broker implementation lives in internal/kafka.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, key string, evt event.OrderPlaced) error
}

type LineItemInput struct {
	ProductID int64
	Amount    int64
}

// Service is the single entry point for order mutations. Both the HTTP
// layer and the broker consumer call into it.
type Service interface {
	CreateOrder(ctx context.Context, userID, supplierID int64) (*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	AddLineItems(ctx context.Context, orderID int64, items []LineItemInput) (*Order, error)
	RemoveLineItems(ctx context.Context, orderID int64, productIDs []int64) (*Order, error)
	SetNextStatus(ctx context.Context, orderID int64, target Status, cancelComment *string) (*Order, error)
	ApplySupplierStatus(ctx context.Context, evt event.SupplierOrderStatusUpdate) error
}

type service struct {
	repo         Repository
	supplierRepo supplier.Repository
	productRepo  product.Repository
	publisher    EventPublisher
}

func NewService(repo Repository, supplierRepo supplier.Repository, productRepo product.Repository, publisher EventPublisher) Service {
	return &service{
		repo:         repo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		publisher:    publisher,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID, supplierID int64) (*Order, error) {
	sup, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, supplier.ErrSupplierNotFound
	}

	return s.repo.CreateOrder(ctx, userID, supplierID)
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) AddLineItems(ctx context.Context, orderID int64, items []LineItemInput) (*Order, error) {
	o, err := s.formingOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lineItems := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidAmount, item.ProductID)
		}
		lineItems = append(lineItems, LineItem{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Amount:    item.Amount,
		})
	}

	if err := s.repo.AddLineItems(ctx, o.ID, lineItems); err != nil {
		return nil, err
	}
	return s.repo.GetOrderWithItems(ctx, o.ID)
}

func (s *service) RemoveLineItems(ctx context.Context, orderID int64, productIDs []int64) (*Order, error) {
	o, err := s.formingOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveLineItems(ctx, o.ID, productIDs); err != nil {
		return nil, err
	}
	return s.repo.GetOrderWithItems(ctx, o.ID)
}

func (s *service) formingOrder(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if o.Status != StatusForming {
		return nil, ErrOrderNotForming
	}
	return o, nil
}

// SetNextStatus validates target against the status graph and applies it
// with a conditional write keyed on the status read here. Of two racing
// transitions exactly one wins; the loser gets ErrStatusConflict.
func (s *service) SetNextStatus(ctx context.Context, orderID int64, target Status, cancelComment *string) (*Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if o.Status == target {
		return o, nil
	}
	if !CanTransition(o.Status, target) {
		return nil, &InvalidTransitionError{OrderID: o.ID, From: o.Status, To: target}
	}

	if target.IsCancellation() {
		if cancelComment == nil || *cancelComment == "" {
			return nil, ErrMissingCancelReason
		}
	} else {
		cancelComment = nil
	}

	if target == StatusCreated {
		if err := s.checkProductsSupplied(ctx, o); err != nil {
			return nil, err
		}
	}

	ok, err := s.repo.UpdateOrderStatus(ctx, o.ID, target, cancelComment, o.Status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusConflict
	}

	prev := o.Status
	o.Status = target
	o.CancelComment = cancelComment

	if prev == StatusCreated && target == StatusSendToSupplier {
		if err := s.publishOrderPlaced(ctx, o); err != nil {
			return o, &PublishError{Order: o, Err: err}
		}
	}

	return o, nil
}

// ApplySupplierStatus translates the supplier status vocabulary and runs
// the regular transition path for the order the event names.
func (s *service) ApplySupplierStatus(ctx context.Context, evt event.SupplierOrderStatusUpdate) error {
	target, ok := supplierStatusMapping[evt.Status]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, evt.Status)
	}

	o, err := s.repo.GetOrderByNumber(ctx, evt.OrderNumber)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: number=%s", ErrOrderNotFound, evt.OrderNumber)
	}

	_, err = s.SetNextStatus(ctx, o.ID, target, evt.CancelComment)
	return err
}

var supplierStatusMapping = map[event.SupplierStatus]Status{
	event.SupplierStatusSendToSupplier: StatusSendToSupplier,
	event.SupplierStatusInProgress:     StatusInProcess,
	event.SupplierStatusInDelivery:     StatusInDelivery,
	event.SupplierStatusDelivered:      StatusDelivered,
	event.SupplierStatusCanceled:       StatusCancelledBySupplier,
}

func (s *service) checkProductsSupplied(ctx context.Context, o *Order) error {
	full, err := s.repo.GetOrderWithItems(ctx, o.ID)
	if err != nil {
		return err
	}
	if len(full.Items) == 0 {
		return ErrNoItems
	}

	catalog, err := s.supplierRepo.GetCatalog(ctx, o.SupplierID)
	if err != nil {
		return err
	}

	supplied := make(map[int64]struct{}, len(catalog))
	for _, entry := range catalog {
		supplied[entry.ProductID] = struct{}{}
	}

	var missing []int64
	for _, item := range full.Items {
		if _, ok := supplied[item.ProductID]; !ok {
			missing = append(missing, item.ProductID)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return &UnsuppliedProductsError{OrderID: o.ID, ProductIDs: missing}
	}
	return nil
}

func (s *service) publishOrderPlaced(ctx context.Context, o *Order) error {
	full, err := s.repo.GetOrderWithItems(ctx, o.ID)
	if err != nil {
		return err
	}
	if len(full.Items) == 0 {
		return ErrNoItems
	}

	sup, err := s.supplierRepo.GetByID(ctx, o.SupplierID)
	if err != nil {
		return err
	}
	if sup == nil {
		return supplier.ErrSupplierNotFound
	}

	catalog, err := s.supplierRepo.GetCatalog(ctx, o.SupplierID)
	if err != nil {
		return err
	}
	entries := make(map[int64]supplier.CatalogEntry, len(catalog))
	for _, entry := range catalog {
		entries[entry.ProductID] = entry
	}

	productIDs := make([]int64, 0, len(full.Items))
	for _, item := range full.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	titles, err := s.productRepo.GetTitles(ctx, productIDs)
	if err != nil {
		return err
	}

	lines := make([]event.OrderLine, 0, len(full.Items))
	for _, item := range full.Items {
		entry, ok := entries[item.ProductID]
		if !ok {
			return &UnsuppliedProductsError{OrderID: o.ID, ProductIDs: []int64{item.ProductID}}
		}
		lines = append(lines, event.OrderLine{
			Title:     titles[item.ProductID],
			Code:      entry.ProductCode,
			Amount:    item.Amount,
			Price:     entry.Price,
			TotalCost: entry.Price * item.Amount,
		})
	}

	evt, err := event.NewOrderPlaced(o.Number, lines)
	if err != nil {
		return err
	}

	return s.publisher.PublishOrderPlaced(ctx, sup.OGRN, evt)
}
