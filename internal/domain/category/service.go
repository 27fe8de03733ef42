package category

import (
	"context"

	"github.com/go-faster/errors"
)

// CreateInput holds the fields accepted when creating a category.
type CreateInput struct {
	Name        string
	Description string
	Picture     []byte
}

// UpdateInput holds the fields an update may change.
type UpdateInput struct {
	Name        string
	Description string
	Picture     []byte
}

// Service wraps the repository with the duplicate-name invariant: no two
// categories may share a name, but a category may always keep its own.
//
// The check is read-then-write and therefore not serialized against
// concurrent writers; the unique index in the schema catches the losers of
// that race as a persistence failure rather than a Conflict.
type Service struct {
	categories Repository
}

// NewService creates a category Service backed by the given repository.
func NewService(categories Repository) *Service {
	return &Service{categories: categories}
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx)
}

// Get returns a single category, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*Category, error) {
	return s.categories.GetByID(ctx, id)
}

// Create persists a new category after checking the name is unused. It
// returns ErrDuplicateName, and performs no write, when the name is taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (int, error) {
	existing, err := s.categories.GetByName(ctx, in.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, errors.Wrap(err, "check name")
	}
	if existing != nil {
		return 0, ErrDuplicateName
	}

	id, err := s.categories.Create(ctx, &Category{
		Name:        in.Name,
		Description: in.Description,
		Picture:     in.Picture,
	})
	if err != nil {
		return 0, errors.Wrap(err, "create category")
	}
	return id, nil
}

// Update overwrites a category's fields. A name held by a different
// category is rejected with ErrDuplicateName; the category's own current
// name never conflicts. It returns false when the category does not exist.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (bool, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "get category")
	}

	existing, err := s.categories.GetByName(ctx, in.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, errors.Wrap(err, "check name")
	}
	if existing != nil && existing.ID != id {
		return false, ErrDuplicateName
	}

	c.Name = in.Name
	c.Description = in.Description
	c.Picture = in.Picture

	return s.categories.Update(ctx, c)
}

// Delete removes a category. The boolean reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.categories.Delete(ctx, id)
}
