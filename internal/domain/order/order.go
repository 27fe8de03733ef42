package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no order exists for a requested identifier.
var ErrNotFound = errors.New("order not found")

// Order is the aggregate root: one customer order together with the line
// items it owns. The identifier is assigned by the store on creation and
// never changes afterwards.
type Order struct {
	ID             int
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

	// Details are owned by the order. They are created with it, deleted with
	// it, and never addressed independently.
	Details []Detail
}

// Detail is a single order line. UnitPrice is the price at the time the
// order was placed; it is never re-derived from the product catalog.
type Detail struct {
	OrderID   int
	ProductID int
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  float64
}

// Repository defines persistence operations for the order aggregate. It is
// the only path to storage and exclusively owns the transaction boundary.
type Repository interface {
	// List returns all orders without their lines, ordered by identifier.
	List(ctx context.Context) ([]Order, error)

	// GetByID returns the order with its lines populated, or ErrNotFound.
	GetByID(ctx context.Context, id int) (*Order, error)

	// Create inserts the order and all of its lines in one transaction and
	// returns the store-assigned identifier. Each line's OrderID is stamped
	// in place, so the in-memory aggregate matches the store afterwards.
	Create(ctx context.Context, o *Order) (int, error)

	// Update rewrites the order's scalar fields. It does not touch lines.
	// The boolean reports whether a row matched the identifier.
	Update(ctx context.Context, o *Order) (bool, error)

	// Delete removes the order and all of its lines in one transaction.
	// The boolean reports whether the order existed.
	Delete(ctx context.Context, id int) (bool, error)
}
