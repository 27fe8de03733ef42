package supplier

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no supplier exists for a requested identifier.
var ErrNotFound = errors.New("supplier not found")

// Supplier is a company the catalog sources products from.
type Supplier struct {
	ID           int
	CompanyName  string
	ContactName  string
	ContactTitle string
	Address      string
	City         string
	Region       string
	PostalCode   string
	Country      string
	Phone        string
	Fax          string
	HomePage     string
}

// Repository defines persistence operations for suppliers.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	GetByID(ctx context.Context, id int) (*Supplier, error)
	Create(ctx context.Context, s *Supplier) (int, error)
	Update(ctx context.Context, s *Supplier) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}
