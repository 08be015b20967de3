package supplier

import (
	"context"
	"errors"
	"fmt"

	"postavka-be/internal/event"
)

var (
	ErrSupplierNotFound     = errors.New("supplier not found")
	ErrCatalogEntryNotFound = errors.New("supplier does not carry this product code")
)

type Service interface {
	// ApplyPriceUpdate sets a new catalog price announced by a supplier
	// over the broker. Idempotent by (ogrn, product_code, price).
	ApplyPriceUpdate(ctx context.Context, evt event.SupplierPriceUpdate) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ApplyPriceUpdate(ctx context.Context, evt event.SupplierPriceUpdate) error {
	sup, err := s.repo.GetByOGRN(ctx, evt.OGRN)
	if err != nil {
		return err
	}
	if sup == nil {
		return fmt.Errorf("%w: ogrn=%s", ErrSupplierNotFound, evt.OGRN)
	}

	count, err := s.repo.UpdateCatalogPrice(ctx, sup.ID, evt.ProductCode, evt.Price)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: ogrn=%s code=%s", ErrCatalogEntryNotFound, evt.OGRN, evt.ProductCode)
	}
	return nil
}
