package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no product exists for a requested identifier.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item.
type Product struct {
	ID              int
	Name            string
	SupplierID      int
	CategoryID      int
	QuantityPerUnit string
	UnitPrice       decimal.Decimal
	UnitsInStock    int
	UnitsOnOrder    int
	ReorderLevel    int
	Discontinued    bool
}

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	Create(ctx context.Context, p *Product) (int, error)
	Update(ctx context.Context, p *Product) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}
