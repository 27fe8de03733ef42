package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/northwind-api/internal/domain/product"
)

const (
	listProductsSQL = `SELECT product_id, product_name, supplier_id, category_id, quantity_per_unit,
			unit_price, units_in_stock, units_on_order, reorder_level, discontinued
		FROM products ORDER BY product_id`

	getProductByIDSQL = `SELECT product_id, product_name, supplier_id, category_id, quantity_per_unit,
			unit_price, units_in_stock, units_on_order, reorder_level, discontinued
		FROM products WHERE product_id = $1`

	insertProductSQL = `INSERT INTO products
			(product_name, supplier_id, category_id, quantity_per_unit, unit_price,
			 units_in_stock, units_on_order, reorder_level, discontinued)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_id`

	updateProductSQL = `UPDATE products
		SET product_name = $2, supplier_id = $3, category_id = $4, quantity_per_unit = $5,
			unit_price = $6, units_in_stock = $7, units_on_order = $8, reorder_level = $9,
			discontinued = $10
		WHERE product_id = $1`

	deleteProductSQL = `DELETE FROM products WHERE product_id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by identifier.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// Create inserts a product and returns the store-assigned identifier.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, insertProductSQL,
		p.Name, p.SupplierID, p.CategoryID, p.QuantityPerUnit, p.UnitPrice,
		p.UnitsInStock, p.UnitsOnOrder, p.ReorderLevel, p.Discontinued,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "create product %q", p.Name)
	}
	p.ID = id
	return id, nil
}

// Update rewrites a product's fields. The boolean reports whether a row
// matched.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.SupplierID, p.CategoryID, p.QuantityPerUnit, p.UnitPrice,
		p.UnitsInStock, p.UnitsOnOrder, p.ReorderLevel, p.Discontinued,
	)
	if err != nil {
		return false, errors.Wrapf(err, "update product %d", p.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a product. The boolean reports whether it existed.
func (r *ProductRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete product %d", id)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SupplierID, &p.CategoryID, &p.QuantityPerUnit,
		&p.UnitPrice, &p.UnitsInStock, &p.UnitsOnOrder, &p.ReorderLevel, &p.Discontinued,
	)
	return p, err
}
