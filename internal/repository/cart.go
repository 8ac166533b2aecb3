package repository

import (
	"context"
	"errors"
	"storefront-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository mutates cart rows with single atomic statements so that
// concurrent edits of the same row never lose updates. Read methods taking a
// tx run inside the caller's transaction; nil means the repository's own
// connection.
type CartRepository interface {
	Add(ctx context.Context, key model.CartKey) error
	Increment(ctx context.Context, key model.CartKey) error
	Decrement(ctx context.Context, key model.CartKey) error
	Remove(ctx context.Context, key model.CartKey) error
	Clear(ctx context.Context, userID int64) error
	Quantity(ctx context.Context, key model.CartKey) (int64, error)

	List(ctx context.Context, tx *gorm.DB, userID int64) ([]model.CartLine, error)
	Total(ctx context.Context, tx *gorm.DB, userID int64) (int64, error)
	Snapshot(ctx context.Context, tx *gorm.DB, userID int64) ([]model.CartLine, error)
	RemoveSnapshot(ctx context.Context, tx *gorm.DB, userID int64, lines []model.CartLine) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func byKey(key model.CartKey) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND product_id = ? AND variant = ?", key.UserID, key.ProductID, key.Variant)
	}
}

func (r *cartRepoImpl) Add(ctx context.Context, key model.CartKey) error {
	entry := &model.CartEntry{
		UserID:    key.UserID,
		ProductID: key.ProductID,
		Variant:   key.Variant,
		Qty:       1,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "variant"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"qty": gorm.Expr("cart_entries.qty + ?", 1),
		}),
	}).Create(entry).Error
}

func (r *cartRepoImpl) Increment(ctx context.Context, key model.CartKey) error {
	return r.db.WithContext(ctx).
		Model(&model.CartEntry{}).
		Scopes(byKey(key)).
		UpdateColumn("qty", gorm.Expr("qty + ?", 1)).
		Error
}

// Decrement lowers the quantity by one and deletes the row instead of
// keeping a zero. A missing row is a no-op. The UPDATE runs first so that a
// concurrent decrement waits on the row lock and re-reads the new quantity.
func (r *cartRepoImpl) Decrement(ctx context.Context, key model.CartKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.CartEntry{}).
			Scopes(byKey(key)).
			UpdateColumn("qty", gorm.Expr("qty - ?", 1)).
			Error
		if err != nil {
			return err
		}

		return tx.Scopes(byKey(key)).
			Where("qty <= ?", 0).
			Delete(&model.CartEntry{}).
			Error
	})
}

func (r *cartRepoImpl) Remove(ctx context.Context, key model.CartKey) error {
	return r.db.WithContext(ctx).
		Scopes(byKey(key)).
		Delete(&model.CartEntry{}).
		Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartEntry{}).
		Error
}

// Quantity returns the stored quantity, 0 when the row does not exist.
func (r *cartRepoImpl) Quantity(ctx context.Context, key model.CartKey) (int64, error) {
	var entry model.CartEntry
	err := r.db.WithContext(ctx).
		Scopes(byKey(key)).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return entry.Qty, nil
}

func (r *cartRepoImpl) activeLines(ctx context.Context, tx *gorm.DB, userID int64) *gorm.DB {
	return r.conn(tx).WithContext(ctx).
		Table("cart_entries AS c").
		Select("c.product_id, p.title, p.price, c.variant, c.qty").
		Joins("JOIN products p ON p.id = c.product_id").
		Where("c.user_id = ? AND p.active = ?", userID, true)
}

// List returns the user's entries whose product exists and is active, newest
// product first.
func (r *cartRepoImpl) List(ctx context.Context, tx *gorm.DB, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.activeLines(ctx, tx, userID).
		Order("c.product_id DESC, c.variant ASC").
		Scan(&lines).Error

	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *cartRepoImpl) Total(ctx context.Context, tx *gorm.DB, userID int64) (int64, error) {
	var total int64
	err := r.conn(tx).WithContext(ctx).
		Table("cart_entries AS c").
		Select("COALESCE(SUM(c.qty * p.price), 0)").
		Joins("JOIN products p ON p.id = c.product_id").
		Where("c.user_id = ? AND p.active = ?", userID, true).
		Scan(&total).Error

	return total, err
}

// Snapshot is List with the rows locked for the rest of the transaction on
// dialects that support SELECT ... FOR UPDATE.
func (r *cartRepoImpl) Snapshot(ctx context.Context, tx *gorm.DB, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.activeLines(ctx, tx, userID).
		Order("c.product_id DESC, c.variant ASC").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scan(&lines).Error

	if err != nil {
		return nil, err
	}

	return lines, nil
}

// RemoveSnapshot takes the snapshotted quantities out of the cart. Rows that
// grew after the snapshot keep the difference; rows that did not are deleted.
func (r *cartRepoImpl) RemoveSnapshot(ctx context.Context, tx *gorm.DB, userID int64, lines []model.CartLine) error {
	db := r.conn(tx).WithContext(ctx)

	for _, line := range lines {
		key := model.CartKey{UserID: userID, ProductID: line.ProductID, Variant: line.Variant}

		err := db.Model(&model.CartEntry{}).
			Scopes(byKey(key)).
			UpdateColumn("qty", gorm.Expr("qty - ?", line.Qty)).
			Error
		if err != nil {
			return err
		}

		err = db.Scopes(byKey(key)).
			Where("qty <= ?", 0).
			Delete(&model.CartEntry{}).
			Error
		if err != nil {
			return err
		}
	}

	return nil
}
