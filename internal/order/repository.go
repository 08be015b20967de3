package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	CreateOrder(ctx context.Context, userID, supplierID int64) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	GetOrderByNumber(ctx context.Context, number uuid.UUID) (*Order, error)
	GetOrderWithItems(ctx context.Context, id int64) (*Order, error)
	AddLineItems(ctx context.Context, orderID int64, items []LineItem) error
	RemoveLineItems(ctx context.Context, orderID int64, productIDs []int64) error

	// UpdateOrderStatus applies the new status only if the stored status
	// still equals expectedPrior. Returns false when another writer got
	// there first.
	UpdateOrderStatus(ctx context.Context, id int64, status Status, comment *string, expectedPrior Status) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, userID, supplierID int64) (*Order, error) {
	o := &Order{
		Status:     StatusForming,
		UserID:     userID,
		SupplierID: supplierID,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, supplier_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, number
	`, userID, supplierID, StatusForming).Scan(&o.ID, &o.Number)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return r.getOne(ctx, `
		SELECT id, number, status, cancel_comment, user_id, supplier_id
		FROM orders
		WHERE id = $1
	`, id)
}

func (r *repository) GetOrderByNumber(ctx context.Context, number uuid.UUID) (*Order, error) {
	return r.getOne(ctx, `
		SELECT id, number, status, cancel_comment, user_id, supplier_id
		FROM orders
		WHERE number = $1
	`, number)
}

func (r *repository) getOne(ctx context.Context, query string, arg any) (*Order, error) {
	var (
		o       Order
		comment sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&o.ID, &o.Number, &o.Status, &comment, &o.UserID, &o.SupplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if comment.Valid {
		o.CancelComment = &comment.String
	}
	return &o, nil
}

func (r *repository) GetOrderWithItems(ctx context.Context, id int64) (*Order, error) {
	o, err := r.GetOrder(ctx, id)
	if err != nil || o == nil {
		return o, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, amount
		FROM order_products
		WHERE order_id = $1
		ORDER BY product_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Amount); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) AddLineItems(ctx context.Context, orderID int64, items []LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, product_id, amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id, product_id) DO UPDATE SET amount = EXCLUDED.amount
		`, orderID, item.ProductID, item.Amount)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) RemoveLineItems(ctx context.Context, orderID int64, productIDs []int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM order_products
		WHERE order_id = $1 AND product_id = ANY($2)
	`, orderID, pq.Array(productIDs))
	return err
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id int64, status Status, comment *string, expectedPrior Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, cancel_comment = $2
		WHERE id = $3 AND status = $4
	`, status, comment, id, expectedPrior)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
