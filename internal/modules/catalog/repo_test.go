package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glamup.com/app/internal/shared/dbx/dbxtest"
)

func TestReposRejectKeyUnsafeID(t *testing.T) {
	ctx := context.Background()
	bad := Product{ID: "p:1", Name: "X"}

	assert.ErrorIs(t, NewGormRepo(dbxtest.Open(t, Models()...)).Create(ctx, bad), ErrInvalidID)
	assert.ErrorIs(t, NewMemoryRepo(nil, nil).Create(ctx, bad), ErrInvalidID)
}

func TestGormRepo_ImportAndQuery(t *testing.T) {
	ctx := context.Background()
	db := dbxtest.Open(t, Models()...)
	repo := NewGormRepo(db)

	cats, products, err := Seed()
	require.NoError(t, err)
	require.NoError(t, repo.Import(ctx, cats, products))
	// idempotent
	require.NoError(t, repo.Import(ctx, cats, products))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	gotCats, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, gotCats, 4)
	assert.Equal(t, "clothing", gotCats[0].ID)

	p, err := repo.Get(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "Men's Italian Leather Boots", p.Name)
	assert.Equal(t, "259.99", p.Price.StringFixed(2))
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, "329.99", p.OriginalPrice.StringFixed(2))
	assert.Equal(t, []string{"7", "8", "9", "10", "11", "12"}, p.Sizes)
	assert.Equal(t, "Goodyear welted", p.Specifications["Construction"])

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	makeup, err := repo.List(ctx, Filter{Category: "Makeup"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "7"}, ids(makeup))

	featuredMens, err := repo.List(ctx, Filter{Category: "mens", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"8"}, ids(featuredMens))

	search, err := repo.List(ctx, Filter{Query: "lipstick"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(search))
}

func TestGormRepo_ServiceAddProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRepo(dbxtest.Open(t, Models()...))
	cats, _, err := Seed()
	require.NoError(t, err)
	require.NoError(t, repo.Import(ctx, cats, nil))

	svc := NewService(repo)
	p, err := svc.AddProduct(ctx, NewProductInput{Name: "Linen Shirt", Price: mustDec("49.90"), Category: "mens"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "49.90", got.Price.StringFixed(2))
	assert.Nil(t, got.OriginalPrice)
	assert.True(t, got.New)
}
