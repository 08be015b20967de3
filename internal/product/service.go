package product

import (
	"context"
	"errors"
	"fmt"

	"postavka-be/internal/event"
)

var ErrProductNotFound = errors.New("product not found")

type Service interface {
	// ApplyStockUpdate sets the remaining stock announced over the broker.
	// Idempotent by (product_id, available).
	ApplyStockUpdate(ctx context.Context, evt event.ProductStockUpdate) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ApplyStockUpdate(ctx context.Context, evt event.ProductStockUpdate) error {
	count, err := s.repo.UpdateStock(ctx, evt.ProductID, evt.Available)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: id=%d", ErrProductNotFound, evt.ProductID)
	}
	return nil
}
