package supplier

import (
	"context"

	"github.com/go-faster/errors"
)

// CreateInput holds the fields accepted when adding a supplier.
type CreateInput struct {
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

// UpdateInput holds the fields an update may change.
type UpdateInput struct {
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

// Service maps inbound shapes to the supplier entity and delegates
// persistence to the repository.
type Service struct {
	suppliers Repository
}

// NewService creates a supplier Service backed by the given repository.
func NewService(suppliers Repository) *Service {
	return &Service{suppliers: suppliers}
}

// List returns all suppliers.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.suppliers.List(ctx)
}

// Get returns a single supplier, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// Create persists a new supplier and returns the store-assigned identifier.
func (s *Service) Create(ctx context.Context, in CreateInput) (int, error) {
	id, err := s.suppliers.Create(ctx, &Supplier{
		CompanyName:  in.CompanyName,
		ContactName:  in.ContactName,
		ContactTitle: in.ContactTitle,
		Address:      in.Address,
		City:         in.City,
		Region:       in.Region,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		Phone:        in.Phone,
		Fax:          in.Fax,
		HomePage:     in.HomePage,
	})
	if err != nil {
		return 0, errors.Wrap(err, "create supplier")
	}
	return id, nil
}

// Update overwrites a supplier's fields. It returns false without a write
// when the supplier does not exist.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (bool, error) {
	sp, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "get supplier")
	}

	sp.CompanyName = in.CompanyName
	sp.ContactName = in.ContactName
	sp.ContactTitle = in.ContactTitle
	sp.Address = in.Address
	sp.City = in.City
	sp.Region = in.Region
	sp.PostalCode = in.PostalCode
	sp.Country = in.Country
	sp.Phone = in.Phone
	sp.Fax = in.Fax
	sp.HomePage = in.HomePage

	return s.suppliers.Update(ctx, sp)
}

// Delete removes a supplier. The boolean reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.suppliers.Delete(ctx, id)
}
