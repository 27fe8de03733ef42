//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/northwind-api/internal/domain/category"
)

func TestCategoryRepositoryCRUD(t *testing.T) {
	pool := setupPool(t)
	repo := NewCategoryRepository(pool)
	ctx := context.Background()

	id, err := repo.Create(ctx, &category.Category{
		Name:        "Beverages",
		Description: "Soft drinks, coffees, teas",
		Picture:     []byte{0x42, 0x4d},
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Name)
	assert.Equal(t, []byte{0x42, 0x4d}, got.Picture)

	byName, err := repo.GetByName(ctx, "Beverages")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	_, err = repo.GetByName(ctx, "beverages")
	assert.ErrorIs(t, err, category.ErrNotFound, "name lookup is exact")

	got.Description = "updated"
	matched, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, matched)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "updated", all[0].Description)

	existed, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, category.ErrNotFound)
}

func TestCategoryRepositoryUniqueName(t *testing.T) {
	pool := setupPool(t)
	repo := NewCategoryRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, &category.Category{Name: "Beverages"})
	require.NoError(t, err)

	// The unique index backs the service-level conflict check against
	// concurrent writers that both pass the read.
	_, err = repo.Create(ctx, &category.Category{Name: "Beverages"})
	assert.Error(t, err)
}

func TestCategoryRepositoryUpdateMissing(t *testing.T) {
	pool := setupPool(t)
	repo := NewCategoryRepository(pool)

	matched, err := repo.Update(context.Background(), &category.Category{ID: 99999, Name: "Ghost"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCategoryServiceConflictAgainstStore(t *testing.T) {
	// The service invariant exercised against the real store: a taken name
	// is rejected, a category's own name is not.
	pool := setupPool(t)
	svc := category.NewService(NewCategoryRepository(pool))
	ctx := context.Background()

	id, err := svc.Create(ctx, category.CreateInput{Name: "Beverages"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, category.CreateInput{Name: "Beverages"})
	assert.ErrorIs(t, err, category.ErrDuplicateName)

	ok, err := svc.Update(ctx, id, category.UpdateInput{Name: "Beverages", Description: "same name"})
	require.NoError(t, err)
	assert.True(t, ok)

	otherID, err := svc.Create(ctx, category.CreateInput{Name: "Condiments"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, otherID, category.UpdateInput{Name: "Beverages"})
	assert.ErrorIs(t, err, category.ErrDuplicateName)
}
