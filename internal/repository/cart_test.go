package repository_test

import (
	"context"
	"sync"
	"testing"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID int64 = 1001

func TestCart_AddIncrementDecrement(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "mug", 100)
	key := model.CartKey{UserID: userID, ProductID: p.ID}

	require.NoError(t, repo.Add(ctx, key))
	require.NoError(t, repo.Add(ctx, key))
	require.NoError(t, repo.Increment(ctx, key))

	qty, err := repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), qty)

	require.NoError(t, repo.Decrement(ctx, key))
	qty, err = repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	require.NoError(t, repo.Decrement(ctx, key))
	require.NoError(t, repo.Decrement(ctx, key))

	var count int64
	require.NoError(t, db.Model(&model.CartEntry{}).Count(&count).Error)
	assert.Zero(t, count, "reaching zero deletes the row")

	// decrementing a missing row is a no-op
	require.NoError(t, repo.Decrement(ctx, key))
	qty, err = repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestCart_IncrementMissingRowIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "mug", 100)
	key := model.CartKey{UserID: userID, ProductID: p.ID}

	require.NoError(t, repo.Increment(ctx, key))
	qty, err := repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestCart_NetQuantityProperty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "shirt", 250, "S", "M")
	key := model.CartKey{UserID: userID, ProductID: p.ID, Variant: "M"}

	// + add, i increment, d decrement
	ops := "+iidd d+i+iiddddi"
	var want int64
	for _, op := range ops {
		switch op {
		case '+':
			require.NoError(t, repo.Add(ctx, key))
			want++
		case 'i':
			require.NoError(t, repo.Increment(ctx, key))
			if want > 0 {
				want++
			}
		case 'd':
			require.NoError(t, repo.Decrement(ctx, key))
			if want > 0 {
				want--
			}
		default:
			continue
		}

		qty, err := repo.Quantity(ctx, key)
		require.NoError(t, err)
		require.Equal(t, want, qty)
		require.GreaterOrEqual(t, qty, int64(0))
	}
}

func TestCart_VariantsAreSeparateRows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "shirt", 250, "S", "M")
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: p.ID, Variant: "S"}))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: p.ID, Variant: "M"}))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: p.ID, Variant: "M"}))

	lines, err := repo.List(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "M", lines[0].Variant)
	assert.Equal(t, int64(2), lines[0].Qty)
	assert.Equal(t, "S", lines[1].Variant)
	assert.Equal(t, int64(1), lines[1].Qty)
}

func TestCart_ListOrderAndTotal(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	a := testutil.CreateProduct(t, db, "A", 100)
	b := testutil.CreateProduct(t, db, "B", 250, "M")

	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: a.ID}))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: a.ID}))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: b.ID, Variant: "M"}))
	// someone else's cart
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID + 1, ProductID: a.ID}))

	lines, err := repo.List(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, b.ID, lines[0].ProductID, "newest product first")
	assert.Equal(t, "B", lines[0].Title)
	assert.Equal(t, a.ID, lines[1].ProductID)

	total, err := repo.Total(ctx, nil, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(450), total)

	var sum int64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	assert.Equal(t, sum, total)
}

func TestCart_InactiveProductExcludedButKept(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	ctx := context.Background()

	a := testutil.CreateProduct(t, db, "A", 100)
	b := testutil.CreateProduct(t, db, "B", 250)
	keyB := model.CartKey{UserID: userID, ProductID: b.ID}
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: a.ID}))
	require.NoError(t, repo.Add(ctx, keyB))

	require.NoError(t, products.SetActive(ctx, b.ID, false))

	lines, err := repo.List(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, a.ID, lines[0].ProductID)

	total, err := repo.Total(ctx, nil, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	qty, err := repo.Quantity(ctx, keyB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty, "row survives deactivation")

	require.NoError(t, products.SetActive(ctx, b.ID, true))
	total, err = repo.Total(ctx, nil, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
}

func TestCart_RemoveAndClear(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	a := testutil.CreateProduct(t, db, "A", 100)
	b := testutil.CreateProduct(t, db, "B", 200)
	keyA := model.CartKey{UserID: userID, ProductID: a.ID}
	require.NoError(t, repo.Add(ctx, keyA))
	require.NoError(t, repo.Add(ctx, keyA))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID, ProductID: b.ID}))
	require.NoError(t, repo.Add(ctx, model.CartKey{UserID: userID + 1, ProductID: b.ID}))

	require.NoError(t, repo.Remove(ctx, keyA))
	lines, err := repo.List(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, repo.Clear(ctx, userID))
	lines, err = repo.List(ctx, nil, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	other, err := repo.List(ctx, nil, userID+1)
	require.NoError(t, err)
	assert.Len(t, other, 1, "clear only touches the user's rows")
}

func TestCart_RemoveSnapshotKeepsLaterChanges(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	a := testutil.CreateProduct(t, db, "A", 100)
	b := testutil.CreateProduct(t, db, "B", 200)
	keyA := model.CartKey{UserID: userID, ProductID: a.ID}
	keyB := model.CartKey{UserID: userID, ProductID: b.ID}
	require.NoError(t, repo.Add(ctx, keyA))
	require.NoError(t, repo.Add(ctx, keyA))

	snapshot, err := repo.Snapshot(ctx, nil, userID)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	// modifications after the snapshot
	require.NoError(t, repo.Increment(ctx, keyA))
	require.NoError(t, repo.Add(ctx, keyB))

	require.NoError(t, repo.RemoveSnapshot(ctx, nil, userID, snapshot))

	qtyA, err := repo.Quantity(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), qtyA, "increment made after the snapshot survives")

	qtyB, err := repo.Quantity(ctx, keyB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), qtyB, "row added after the snapshot survives")
}

func TestCart_ConcurrentIncrements(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "A", 100)
	key := model.CartKey{UserID: userID, ProductID: p.ID}
	require.NoError(t, repo.Add(ctx, key))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- repo.Add(ctx, key)
		}()
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, key)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	qty, err := repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1+2*workers), qty)
}

func TestCart_ConcurrentDecrements(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "A", 100)
	key := model.CartKey{UserID: userID, ProductID: p.ID}

	const start = 10
	require.NoError(t, repo.Add(ctx, key))
	for i := 1; i < start; i++ {
		require.NoError(t, repo.Increment(ctx, key))
	}

	// more decrements than units: the row must end up deleted, never negative
	const workers = start + 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Decrement(ctx, key)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	qty, err := repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, qty)

	var rows int64
	require.NoError(t, db.Model(&model.CartEntry{}).Where("user_id = ?", userID).Count(&rows).Error)
	assert.Zero(t, rows)
}

// The UPDATE must come before the DELETE: a concurrent decrement blocked on
// the row lock then re-evaluates against the decremented quantity.
func TestCart_Decrement_UpdatesBeforeDelete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cart_entries" SET "qty"=qty - \$1 WHERE user_id = \$2 AND product_id = \$3 AND variant = \$4`).
		WithArgs(1, userID, 7, "M").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "cart_entries" WHERE .*qty <= \$4`).
		WithArgs(userID, 7, "M", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Decrement(context.Background(), model.CartKey{UserID: userID, ProductID: 7, Variant: "M"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCart_ProductDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "A", 100)
	key := model.CartKey{UserID: userID, ProductID: p.ID}
	require.NoError(t, repo.Add(ctx, key))

	require.NoError(t, products.Delete(ctx, p.ID))

	qty, err := repo.Quantity(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, qty)

	assert.ErrorIs(t, products.Delete(ctx, p.ID), repository.ErrProductNotFound)
}
