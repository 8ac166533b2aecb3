package service_test

import (
	"context"
	"testing"
	"time"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCart_AddReturnsRefreshedView(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t)

	view, err := f.cart.View(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(450), view.Total)
	assert.Equal(t, "UAH", view.Currency)
	assert.Equal(t, "B", view.Items[0].Title)
	assert.Equal(t, "M", view.Items[0].Variant)
	assert.Equal(t, int64(200), view.Items[1].Subtotal)
}

func TestCart_VariantRequired(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.CreateProduct(t, f.db, "hoodie", 900, "S", "M")

	_, err := f.cart.Add(context.Background(), model.CartKey{UserID: buyer.ID, ProductID: p.ID})
	assert.ErrorIs(t, err, service.ErrVariantRequired)

	var verr *service.VariantRequiredError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"S", "M"}, verr.Variants)

	_, err = f.cart.Add(context.Background(), model.CartKey{UserID: buyer.ID, ProductID: p.ID, Variant: "XXL"})
	assert.ErrorIs(t, err, service.ErrUnknownVariant)

	qty, err := f.cartRepo.Quantity(context.Background(), model.CartKey{UserID: buyer.ID, ProductID: p.ID, Variant: "XXL"})
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestCart_VariantDroppedForPlainProduct(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.CreateProduct(t, f.db, "mug", 120)

	view, err := f.cart.Add(context.Background(), model.CartKey{UserID: buyer.ID, ProductID: p.ID, Variant: "L"})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Empty(t, view.Items[0].Variant)
}

func TestCart_AddUnavailableProductIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := testutil.CreateProduct(t, f.db, "old", 50)
	require.NoError(t, repository.NewProductRepository(f.db).SetActive(ctx, p.ID, false))

	view, err := f.cart.Add(ctx, model.CartKey{UserID: buyer.ID, ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, service.NoticeProductUnavailable, view.Notice)
	assert.True(t, view.Empty())

	view, err = f.cart.Add(ctx, model.CartKey{UserID: buyer.ID, ProductID: 9999})
	require.NoError(t, err)
	assert.Equal(t, service.NoticeProductUnavailable, view.Notice)
}

func TestCart_DecrementToZeroRemovesLine(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := testutil.CreateProduct(t, f.db, "tee", 300)
	key := model.CartKey{UserID: buyer.ID, ProductID: p.ID}

	_, err := f.cart.Add(ctx, key)
	require.NoError(t, err)

	view, err := f.cart.Decrement(ctx, key)
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Zero(t, view.Total)

	view, err = f.cart.Decrement(ctx, key)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}
