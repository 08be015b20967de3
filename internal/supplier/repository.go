package supplier

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Supplier, error)
	GetByOGRN(ctx context.Context, ogrn string) (*Supplier, error)
	GetCatalog(ctx context.Context, supplierID int64) ([]CatalogEntry, error)

	// UpdateCatalogPrice returns the number of updated catalog rows; zero
	// means the (supplier, product code) pair does not exist.
	UpdateCatalogPrice(ctx context.Context, supplierID int64, productCode string, price int64) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Supplier, error) {
	return r.getOne(ctx, `
		SELECT id, title, ogrn, admin_id
		FROM suppliers
		WHERE id = $1
	`, id)
}

func (r *repository) GetByOGRN(ctx context.Context, ogrn string) (*Supplier, error) {
	return r.getOne(ctx, `
		SELECT id, title, ogrn, admin_id
		FROM suppliers
		WHERE ogrn = $1
	`, ogrn)
}

func (r *repository) getOne(ctx context.Context, query string, arg any) (*Supplier, error) {
	var s Supplier
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&s.ID, &s.Title, &s.OGRN, &s.AdminID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetCatalog(ctx context.Context, supplierID int64) ([]CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT supplier_id, product_id, supplier_product_id, price
		FROM supplier_products
		WHERE supplier_id = $1
		ORDER BY product_id
	`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.SupplierID, &e.ProductID, &e.ProductCode, &e.Price); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) UpdateCatalogPrice(ctx context.Context, supplierID int64, productCode string, price int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE supplier_products
		SET price = $1
		WHERE supplier_id = $2 AND supplier_product_id = $3
	`, price, supplierID, productCode)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
