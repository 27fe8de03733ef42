package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CreateInput holds the fields accepted when adding a product.
type CreateInput struct {
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

// UpdateInput holds the fields an update may change.
type UpdateInput struct {
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

// Service maps inbound shapes to the product entity and delegates
// persistence to the repository.
type Service struct {
	products Repository
}

// NewService creates a product Service backed by the given repository.
func NewService(products Repository) *Service {
	return &Service{products: products}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.products.List(ctx)
}

// Get returns a single product, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

// Create persists a new product and returns the store-assigned identifier.
func (s *Service) Create(ctx context.Context, in CreateInput) (int, error) {
	id, err := s.products.Create(ctx, &Product{
		Name:            in.Name,
		SupplierID:      in.SupplierID,
		CategoryID:      in.CategoryID,
		QuantityPerUnit: in.QuantityPerUnit,
		UnitPrice:       in.UnitPrice,
		UnitsInStock:    in.UnitsInStock,
		UnitsOnOrder:    in.UnitsOnOrder,
		ReorderLevel:    in.ReorderLevel,
		Discontinued:    in.Discontinued,
	})
	if err != nil {
		return 0, errors.Wrap(err, "create product")
	}
	return id, nil
}

// Update overwrites a product's fields. It returns false without a write
// when the product does not exist.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (bool, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "get product")
	}

	p.Name = in.Name
	p.SupplierID = in.SupplierID
	p.CategoryID = in.CategoryID
	p.QuantityPerUnit = in.QuantityPerUnit
	p.UnitPrice = in.UnitPrice
	p.UnitsInStock = in.UnitsInStock
	p.UnitsOnOrder = in.UnitsOnOrder
	p.ReorderLevel = in.ReorderLevel
	p.Discontinued = in.Discontinued

	return s.products.Update(ctx, p)
}

// Delete removes a product. The boolean reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.products.Delete(ctx, id)
}
