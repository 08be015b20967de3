package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetTitles(ctx context.Context, ids []int64) (map[int64]string, error)

	// UpdateStock returns the number of updated rows; zero means the
	// product does not exist.
	UpdateStock(ctx context.Context, productID, available int64) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, unit, available
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Unit, &p.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

func (r *repository) UpdateStock(ctx context.Context, productID, available int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET available = $1
		WHERE id = $2
	`, available, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
