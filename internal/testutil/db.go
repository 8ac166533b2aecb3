// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temp dir, closed on cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=1&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

// CreateProduct inserts an active product and returns it.
func CreateProduct(t *testing.T, db *gorm.DB, title string, price int64, variants ...string) *model.Product {
	t.Helper()

	if variants == nil {
		variants = []string{}
	}
	p := &model.Product{
		Title:       title,
		Price:       price,
		Description: title + " description",
		ImageRef:    "img-" + title,
		Variants:    variants,
		Active:      true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
