package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/northwind-api/internal/domain/category"
)

const (
	listCategoriesSQL = `SELECT category_id, category_name, description, picture
		FROM categories ORDER BY category_id`

	getCategoryByIDSQL = `SELECT category_id, category_name, description, picture
		FROM categories WHERE category_id = $1`

	getCategoryByNameSQL = `SELECT category_id, category_name, description, picture
		FROM categories WHERE category_name = $1`

	insertCategorySQL = `INSERT INTO categories (category_name, description, picture)
		VALUES ($1, $2, $3) RETURNING category_id`

	updateCategorySQL = `UPDATE categories
		SET category_name = $2, description = $3, picture = $4
		WHERE category_id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE category_id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories ordered by identifier.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetByID returns a single category, or category.ErrNotFound.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategoryByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get category %d", id)
	}

	c, err := pgx.CollectOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get category %d", id)
	}
	return &c, nil
}

// GetByName returns the category with the exact given name, or
// category.ErrNotFound.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategoryByNameSQL, name)
	if err != nil {
		return nil, errors.Wrapf(err, "get category %q", name)
	}

	c, err := pgx.CollectOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get category %q", name)
	}
	return &c, nil
}

// Create inserts a category and returns the store-assigned identifier.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, insertCategorySQL, c.Name, c.Description, c.Picture).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "create category %q", c.Name)
	}
	c.ID = id
	return id, nil
}

// Update rewrites a category's fields. The boolean reports whether a row
// matched.
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Name, c.Description, c.Picture)
	if err != nil {
		return false, errors.Wrapf(err, "update category %d", c.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a category. The boolean reports whether it existed.
func (r *CategoryRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return false, errors.Wrapf(err, "delete category %d", id)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCategory(row pgx.CollectableRow) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Picture)
	return c, err
}
