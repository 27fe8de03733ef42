package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/northwind-api/internal/domain/supplier"
)

const (
	listSuppliersSQL = `SELECT supplier_id, company_name, contact_name, contact_title, address,
			city, region, postal_code, country, phone, fax, home_page
		FROM suppliers ORDER BY supplier_id`

	getSupplierByIDSQL = `SELECT supplier_id, company_name, contact_name, contact_title, address,
			city, region, postal_code, country, phone, fax, home_page
		FROM suppliers WHERE supplier_id = $1`

	insertSupplierSQL = `INSERT INTO suppliers
			(company_name, contact_name, contact_title, address, city, region,
			 postal_code, country, phone, fax, home_page)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING supplier_id`

	updateSupplierSQL = `UPDATE suppliers
		SET company_name = $2, contact_name = $3, contact_title = $4, address = $5, city = $6,
			region = $7, postal_code = $8, country = $9, phone = $10, fax = $11, home_page = $12
		WHERE supplier_id = $1`

	deleteSupplierSQL = `DELETE FROM suppliers WHERE supplier_id = $1`
)

var _ supplier.Repository = (*SupplierRepository)(nil)

// SupplierRepository implements supplier.Repository backed by PostgreSQL.
type SupplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository returns a SupplierRepository that uses the given pool.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

// List returns all suppliers ordered by identifier.
func (r *SupplierRepository) List(ctx context.Context) ([]supplier.Supplier, error) {
	rows, err := r.pool.Query(ctx, listSuppliersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return pgx.CollectRows(rows, scanSupplier)
}

// GetByID returns a single supplier, or supplier.ErrNotFound.
func (r *SupplierRepository) GetByID(ctx context.Context, id int) (*supplier.Supplier, error) {
	rows, err := r.pool.Query(ctx, getSupplierByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get supplier %d", id)
	}

	s, err := pgx.CollectOneRow(rows, scanSupplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, supplier.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get supplier %d", id)
	}
	return &s, nil
}

// Create inserts a supplier and returns the store-assigned identifier.
func (r *SupplierRepository) Create(ctx context.Context, s *supplier.Supplier) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, insertSupplierSQL,
		s.CompanyName, s.ContactName, s.ContactTitle, s.Address, s.City, s.Region,
		s.PostalCode, s.Country, s.Phone, s.Fax, s.HomePage,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "create supplier %q", s.CompanyName)
	}
	s.ID = id
	return id, nil
}

// Update rewrites a supplier's fields. The boolean reports whether a row
// matched.
func (r *SupplierRepository) Update(ctx context.Context, s *supplier.Supplier) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateSupplierSQL,
		s.ID, s.CompanyName, s.ContactName, s.ContactTitle, s.Address, s.City, s.Region,
		s.PostalCode, s.Country, s.Phone, s.Fax, s.HomePage,
	)
	if err != nil {
		return false, errors.Wrapf(err, "update supplier %d", s.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a supplier. The boolean reports whether it existed.
func (r *SupplierRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteSupplierSQL, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete supplier %d", id)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSupplier(row pgx.CollectableRow) (supplier.Supplier, error) {
	var s supplier.Supplier
	err := row.Scan(
		&s.ID, &s.CompanyName, &s.ContactName, &s.ContactTitle, &s.Address, &s.City,
		&s.Region, &s.PostalCode, &s.Country, &s.Phone, &s.Fax, &s.HomePage,
	)
	return s, err
}
