package category

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors reported by the category service and repository.
var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
)

// Category is a product category. Names are unique across the catalog.
type Category struct {
	ID          int
	Name        string
	Description string
	Picture     []byte
}

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int) (*Category, error)

	// GetByName looks up a category by exact name, for the uniqueness check.
	GetByName(ctx context.Context, name string) (*Category, error)

	Create(ctx context.Context, c *Category) (int, error)
	Update(ctx context.Context, c *Category) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}
