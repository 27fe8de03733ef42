package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// LineInput is one inbound order line. UnitPrice is copied verbatim into the
// aggregate and fixed there for the lifetime of the order.
type LineInput struct {
	ProductID int
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  float64
}

// CreateInput holds the fields accepted when placing a new order.
type CreateInput struct {
	CustomerID     string
	EmployeeID     int
	OrderDate      time.Time
	RequiredDate   *time.Time
	ShippedDate    *time.Time
	ShipVia        int
	Freight        decimal.Decimal
	ShipName       string
	ShipAddress    string
	ShipCity       string
	ShipRegion     string
	ShipPostalCode string
	ShipCountry    string
	Details        []LineInput
}

// UpdateInput holds the scalar fields an update may change. Lines are not
// updatable: they are written once at creation and removed with the order.
type UpdateInput struct {
	CustomerID     string
	EmployeeID     int
	OrderDate      time.Time
	RequiredDate   *time.Time
	ShippedDate    *time.Time
	ShipVia        int
	Freight        decimal.Decimal
	ShipName       string
	ShipAddress    string
	ShipCity       string
	ShipRegion     string
	ShipPostalCode string
	ShipCountry    string
}

// Service maps inbound shapes to the order aggregate and delegates all
// persistence, including the transaction boundary, to the repository.
type Service struct {
	orders Repository
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// List returns all orders without line data.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// Get returns a single order with its lines, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Create builds the aggregate from the input and persists it, returning the
// store-assigned identifier.
func (s *Service) Create(ctx context.Context, in CreateInput) (int, error) {
	o := &Order{
		CustomerID:     in.CustomerID,
		EmployeeID:     in.EmployeeID,
		OrderDate:      in.OrderDate,
		RequiredDate:   in.RequiredDate,
		ShippedDate:    in.ShippedDate,
		ShipVia:        in.ShipVia,
		Freight:        in.Freight,
		ShipName:       in.ShipName,
		ShipAddress:    in.ShipAddress,
		ShipCity:       in.ShipCity,
		ShipRegion:     in.ShipRegion,
		ShipPostalCode: in.ShipPostalCode,
		ShipCountry:    in.ShipCountry,
		Details:        make([]Detail, len(in.Details)),
	}
	for i, d := range in.Details {
		o.Details[i] = Detail{
			ProductID: d.ProductID,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		}
	}

	id, err := s.orders.Create(ctx, o)
	if err != nil {
		return 0, errors.Wrap(err, "create order")
	}
	return id, nil
}

// Update fetches the current aggregate, overwrites the updatable scalar
// fields, and persists the parent row. It returns false without another
// store call when the order does not exist.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (bool, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "get order")
	}

	o.CustomerID = in.CustomerID
	o.EmployeeID = in.EmployeeID
	o.OrderDate = in.OrderDate
	o.RequiredDate = in.RequiredDate
	o.ShippedDate = in.ShippedDate
	o.ShipVia = in.ShipVia
	o.Freight = in.Freight
	o.ShipName = in.ShipName
	o.ShipAddress = in.ShipAddress
	o.ShipCity = in.ShipCity
	o.ShipRegion = in.ShipRegion
	o.ShipPostalCode = in.ShipPostalCode
	o.ShipCountry = in.ShipCountry

	return s.orders.Update(ctx, o)
}

// Delete removes the order and its lines. The boolean reports whether the
// order existed.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.orders.Delete(ctx, id)
}
