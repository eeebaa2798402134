// Package testdb opens throwaway sqlite databases with the full schema migrated.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"Pharmetix/models"
	"Pharmetix/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New every call gets its own in-memory database. A single connection serialises
// transactions the way row locks do on mysql.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func User(t testing.TB, db *gorm.DB, role models.Role) *models.Users {
	t.Helper()
	u := &models.Users{
		Name:   string(role) + "-" + uuid.NewString()[:8],
		Email:  uuid.NewString() + "@pharmetix.test",
		Role:   role,
		Status: models.UserActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Category(t testing.TB, db *gorm.DB) *models.Category {
	t.Helper()
	name := "cat-" + uuid.NewString()[:8]
	c := &models.Category{Name: name, Slug: name, IsActive: true}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Medicine active medicine owned by sellerID with the given price and stock.
func Medicine(t testing.TB, db *gorm.DB, sellerID, categoryID int64, price string, stock int) *models.Medicine {
	t.Helper()
	name := "med-" + uuid.NewString()[:8]
	m := &models.Medicine{
		Slug:          name,
		GenericName:   name,
		BrandName:     name,
		Manufacturer:  "Acme Pharma",
		DosageForm:    models.DosageTablet,
		PackSize:      10,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		ExpiryDate:    datatypes.Date(time.Now().AddDate(1, 0, 0)),
		IsActive:      true,
		CategoryID:    categoryID,
		SellerID:      sellerID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Stock(t testing.TB, db *gorm.DB, medicineID int64) int {
	t.Helper()
	var m models.Medicine
	require.NoError(t, db.Select("stock_quantity").First(&m, medicineID).Error)
	return m.StockQuantity
}
