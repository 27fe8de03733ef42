package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/northwind-api/internal/domain/order"
)

const (
	listOrdersSQL = `SELECT order_id, customer_id, employee_id, order_date, required_date, shipped_date,
			ship_via, freight, ship_name, ship_address, ship_city, ship_region, ship_postal_code, ship_country
		FROM orders ORDER BY order_id`

	getOrderByIDSQL = `SELECT order_id, customer_id, employee_id, order_date, required_date, shipped_date,
			ship_via, freight, ship_name, ship_address, ship_city, ship_region, ship_postal_code, ship_country
		FROM orders WHERE order_id = $1`

	getOrderDetailsSQL = `SELECT order_id, product_id, unit_price, quantity, discount
		FROM order_details WHERE order_id = $1 ORDER BY product_id`

	insertOrderSQL = `INSERT INTO orders
			(customer_id, employee_id, order_date, required_date, shipped_date, ship_via, freight,
			 ship_name, ship_address, ship_city, ship_region, ship_postal_code, ship_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING order_id`

	insertOrderDetailSQL = `INSERT INTO order_details (order_id, product_id, unit_price, quantity, discount)
		VALUES ($1, $2, $3, $4, $5)`

	updateOrderSQL = `UPDATE orders
		SET customer_id = $2, employee_id = $3, order_date = $4, required_date = $5, shipped_date = $6,
			ship_via = $7, freight = $8, ship_name = $9, ship_address = $10, ship_city = $11,
			ship_region = $12, ship_postal_code = $13, ship_country = $14
		WHERE order_id = $1`

	deleteOrderDetailsSQL = `DELETE FROM order_details WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE order_id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Create
// and Delete are the only multi-statement operations in the system; each
// runs in its own transaction acquired from the pool and released before
// the call returns, on every exit path.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders without their lines, ordered by identifier.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetByID returns the order with its lines populated, or order.ErrNotFound.
// Two plain reads, no transaction. Lines come back ordered by product so
// repeated reads of the same order are identical.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	o, err := pgx.CollectOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	detailRows, err := r.pool.Query(ctx, getOrderDetailsSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d details", id)
	}
	o.Details, err = pgx.CollectRows(detailRows, scanDetail)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d details", id)
	}

	return &o, nil
}

// Create inserts the order row, stamps the generated identifier onto every
// line, and inserts the lines, all in one transaction. On any failure the
// transaction rolls back and no partial state is visible.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	// No-op after a successful commit; otherwise guarantees the transaction
	// is released on every exit path, including cancellation.
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, insertOrderSQL,
		o.CustomerID, o.EmployeeID, o.OrderDate, o.RequiredDate, o.ShippedDate,
		o.ShipVia, o.Freight, o.ShipName, o.ShipAddress, o.ShipCity,
		o.ShipRegion, o.ShipPostalCode, o.ShipCountry,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}

	for i := range o.Details {
		o.Details[i].OrderID = id
		d := &o.Details[i]

		_, err = tx.Exec(ctx, insertOrderDetailSQL,
			d.OrderID, d.ProductID, d.UnitPrice, d.Quantity, d.Discount,
		)
		if err != nil {
			return 0, errors.Wrapf(err, "insert order %d detail %d", id, d.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit")
	}

	o.ID = id
	return id, nil
}

// Update rewrites the order's scalar fields by identifier. Lines are never
// touched. The boolean reports whether a row matched.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, o.CustomerID, o.EmployeeID, o.OrderDate, o.RequiredDate, o.ShippedDate,
		o.ShipVia, o.Freight, o.ShipName, o.ShipAddress, o.ShipCity,
		o.ShipRegion, o.ShipPostalCode, o.ShipCountry,
	)
	if err != nil {
		return false, errors.Wrapf(err, "update order %d", o.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the order's lines and then the order row itself in one
// transaction. Lines go first: the FK requires it, and no orphaned line may
// survive the parent. The boolean reports whether the order existed.
func (r *OrderRepository) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteOrderDetailsSQL, id); err != nil {
		return false, errors.Wrapf(err, "delete order %d details", id)
	}

	tag, err := tx.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete order %d", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "commit")
	}

	return tag.RowsAffected() > 0, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.EmployeeID, &o.OrderDate, &o.RequiredDate, &o.ShippedDate,
		&o.ShipVia, &o.Freight, &o.ShipName, &o.ShipAddress, &o.ShipCity,
		&o.ShipRegion, &o.ShipPostalCode, &o.ShipCountry,
	)
	return o, err
}

func scanDetail(row pgx.CollectableRow) (order.Detail, error) {
	var d order.Detail
	err := row.Scan(&d.OrderID, &d.ProductID, &d.UnitPrice, &d.Quantity, &d.Discount)
	return d, err
}
