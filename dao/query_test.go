package dao

import (
	"context"
	"testing"

	"Pharmetix/internal/testdb"
	"Pharmetix/models"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates_SkipAbsent(t *testing.T) {
	var (
		id     *int64
		active *bool
	)
	ps := Predicates{
		Eq("manufacturer", ""),
		EqPtr("category_id", id),
		EqPtr("is_active", active),
		In("status", []string{}),
		Gte[decimal.Decimal]("price", nil),
		Search("   ", "generic_name"),
		When(false, Raw("1 = 0")),
	}
	assert.Equal(t, 0, ps.Active())
}

func TestPredicates_Apply(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	seller := testdb.User(t, db, models.RoleSeller)
	cat := testdb.Category(t, db)

	cheap := testdb.Medicine(t, db, seller.ID, cat.ID, "5.00", 10)
	mid := testdb.Medicine(t, db, seller.ID, cat.ID, "20.00", 10)
	pricey := testdb.Medicine(t, db, seller.ID, cat.ID, "80.00", 10)
	require.NoError(t, db.Model(mid).Update("generic_name", "Paracetamol").Error)
	require.NoError(t, db.Model(pricey).Update("is_active", false).Error)

	find := func(ps Predicates) []int64 {
		var ids []int64
		require.NoError(t, ps.Apply(db.WithContext(ctx).Model(&models.Medicine{})).Order("id").Pluck("id", &ids).Error)
		return ids
	}

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(100)
	assert.Equal(t, []int64{mid.ID, pricey.ID}, find(Predicates{Gte("price", &lo), Lte("price", &hi)}))

	inactive := false
	assert.Equal(t, []int64{pricey.ID}, find(Predicates{EqPtr("is_active", &inactive)}))

	assert.Equal(t, []int64{mid.ID}, find(Predicates{Search("PARA", "generic_name", "brand_name")}))

	assert.Equal(t, []int64{cheap.ID, pricey.ID}, find(Predicates{In("id", []int64{cheap.ID, pricey.ID})}))

	assert.Len(t, find(Predicates{Eq("manufacturer", "")}), 3)
}

func TestSortColumns_OrderBy(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	seller := testdb.User(t, db, models.RoleSeller)
	cat := testdb.Category(t, db)

	a := testdb.Medicine(t, db, seller.ID, cat.ID, "30.00", 1)
	b := testdb.Medicine(t, db, seller.ID, cat.ID, "10.00", 1)
	c := testdb.Medicine(t, db, seller.ID, cat.ID, "20.00", 1)

	repo := NewRepo[models.Medicine](db)
	sorts := SortColumns{"price": "price"}

	items, total, err := repo.Page(ctx, db, types.PageQuery{SortBy: "price", SortOrder: "asc", Limit: 2}, sorts, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, c.ID, items[1].ID)

	// unknown sort keys fall back, never reach the query
	items, _, err = repo.Page(ctx, db, types.PageQuery{SortBy: "price; DROP TABLE medicines"}, sorts, "id")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, c.ID, items[0].ID)
	assert.Equal(t, a.ID, items[2].ID)
}
