package service_test

import (
	"context"
	"fmt"
	"testing"

	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"-", []string{}},
		{"   ", []string{}},
		{"S", []string{"S"}},
		{"S,M L;XL", []string{"S", "M", "L", "XL"}},
		{" S ,  M;;M ,S ", []string{"S", "M"}},
		{"red - blue", []string{"red", "blue"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ParseVariants(tt.in))
		})
	}
}

func TestCatalog_Paging(t *testing.T) {
	db := testutil.NewDB(t)
	catalog := service.NewCatalogService(repository.NewProductRepository(db), zap.NewNop())
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		testutil.CreateProduct(t, db, fmt.Sprintf("p%d", i), int64(i*10))
	}

	page, err := catalog.ListActive(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page.Products, service.PageSize)
	assert.True(t, page.HasNext)
	assert.Equal(t, "p7", page.Products[0].Title)

	page, err = catalog.ListActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.False(t, page.HasNext)
	assert.Equal(t, "p1", page.Products[1].Title)

	_, err = catalog.ListActive(ctx, -1)
	assert.ErrorIs(t, err, service.ErrInvalidPageNumber)
}

func TestCatalog_AdminLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	catalog := service.NewCatalogService(repository.NewProductRepository(db), zap.NewNop())
	ctx := context.Background()

	p, err := catalog.CreateProduct(ctx, &dto.CreateProductRequest{
		Title:       " Hoodie ",
		Price:       900,
		Description: "warm",
		ImageRef:    "file-1",
		Variants:    "S, M; L",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", p.Title)
	assert.Equal(t, []string{"S", "M", "L"}, p.Variants)
	assert.True(t, p.Active)

	toggled, err := catalog.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	_, err = catalog.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	all, err := catalog.ListProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all.Products, 1)
	assert.False(t, all.Products[0].Active)

	toggled, err = catalog.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	got, err := catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	require.NoError(t, catalog.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, catalog.DeleteProduct(ctx, p.ID), service.ErrProductNotFound)
	_, err = catalog.ToggleActive(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestParseSeed(t *testing.T) {
	raw := []byte(`
products:
  - id: 1
    title: Tee
    price: 300
    description: cotton
    image: tee.jpg
    variants: [S, M]
  - id: 2
    title: Cap
    price: 150
    active: false
`)

	products, err := service.ParseSeed(raw)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"S", "M"}, products[0].Variants)
	assert.Equal(t, "tee.jpg", products[0].ImageRef)
	assert.True(t, products[0].Active)
	assert.False(t, products[1].Active)
	assert.Equal(t, []string{}, products[1].Variants)

	_, err = service.ParseSeed([]byte("products:\n  - title: nameless\n    price: 1\n"))
	assert.Error(t, err)

	_, err = service.ParseSeed([]byte("products: [oops"))
	assert.Error(t, err)
}

func TestCatalog_SeedFromFile(t *testing.T) {
	db := testutil.NewDB(t)
	catalog := service.NewCatalogService(repository.NewProductRepository(db), zap.NewNop())

	products, err := service.LoadSeedFile("testdata/catalog.yaml")
	require.NoError(t, err)
	require.NoError(t, catalog.Seed(context.Background(), products))
	require.NoError(t, catalog.Seed(context.Background(), products))

	page, err := catalog.ListActive(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, page.Products, len(products))
}
