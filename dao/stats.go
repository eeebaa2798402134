package dao

import (
	"context"
	"time"

	"Pharmetix/models"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stats 只读聚合查询，直接走共享连接
type Stats struct {
	Db *gorm.DB
}

func NewStats(db *gorm.DB) *Stats {
	return &Stats{Db: db}
}

func (s *Stats) Count(ctx context.Context, model any, ps Predicates) (int64, error) {
	var n int64
	err := ps.Apply(s.Db.WithContext(ctx).Model(model)).Count(&n).Error
	return n, err
}

// Sum COALESCE(SUM(column), 0) over the matching rows.
func (s *Stats) Sum(ctx context.Context, model any, column string, ps Predicates) (decimal.Decimal, error) {
	var out decimal.NullDecimal
	err := ps.Apply(s.Db.WithContext(ctx).Model(model)).
		Select("COALESCE(SUM(" + column + "), 0)").
		Row().Scan(&out)
	if err != nil {
		return decimal.Zero, err
	}
	return out.Decimal, nil
}

func (s *Stats) TopCategories(ctx context.Context, limit int) ([]*types.CategoryCount, error) {
	out := make([]*types.CategoryCount, 0)
	err := s.Db.WithContext(ctx).
		Table("categories AS c").
		Select("c.id, c.name, COUNT(m.id) AS medicine_count").
		Joins("LEFT JOIN medicines m ON m.category_id = c.id AND m.is_deleted = ?", false).
		Where("c.is_deleted = ?", false).
		Group("c.id, c.name").
		Order("medicine_count DESC").
		Order("c.id").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (s *Stats) Medicines(ctx context.Context, ps Predicates, limit int) ([]*types.MedicineSummary, error) {
	out := make([]*types.MedicineSummary, 0)
	err := ps.Apply(s.Db.WithContext(ctx).Model(&models.Medicine{})).
		Select("id, brand_name, generic_name, price, piece_price").
		Order("stock_quantity").
		Order("id").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// TopSelling medicines ranked by units sold in non cancelled lines.
func (s *Stats) TopSelling(ctx context.Context, sellerID int64, limit int) ([]*types.MedicineSummary, error) {
	out := make([]*types.MedicineSummary, 0)
	db := s.Db.WithContext(ctx).
		Table("medicines AS m").
		Select("m.id, m.brand_name, m.generic_name, m.price, m.piece_price, COALESCE(SUM(oi.quantity), 0) AS count").
		Joins("JOIN order_items oi ON oi.medicine_id = m.id AND oi.status <> ?", models.ItemCancelled)
	if sellerID > 0 {
		db = db.Where("m.seller_id = ?", sellerID)
	}
	err := db.Group("m.id, m.brand_name, m.generic_name, m.price, m.piece_price").
		Order("count DESC").
		Order("m.id").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// TopRated medicines ranked by review count.
func (s *Stats) TopRated(ctx context.Context, sellerID int64, limit int) ([]*types.MedicineSummary, error) {
	out := make([]*types.MedicineSummary, 0)
	db := s.Db.WithContext(ctx).
		Table("medicines AS m").
		Select("m.id, m.brand_name, m.generic_name, m.price, m.piece_price, COUNT(r.id) AS count").
		Joins("JOIN reviews r ON r.medicine_id = m.id")
	if sellerID > 0 {
		db = db.Where("m.seller_id = ?", sellerID)
	}
	err := db.Group("m.id, m.brand_name, m.generic_name, m.price, m.piece_price").
		Order("count DESC").
		Order("m.id").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// OrdersPerDay non cancelled orders created since `since`, grouped by day.
func (s *Stats) OrdersPerDay(ctx context.Context, since time.Time) ([]*types.DailyOrders, error) {
	return scanDaily(s.Db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, models.OrderCancelled).
		Group("DATE(created_at)").
		Order("day"))
}

func (s *Stats) SellerItemsPerDay(ctx context.Context, sellerID int64, since time.Time) ([]*types.DailyOrders, error) {
	return scanDaily(s.Db.WithContext(ctx).
		Table("order_items AS oi").
		Select("DATE(o.created_at) AS day, COUNT(oi.id) AS orders_count, COALESCE(SUM(oi.sub_total), 0) AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.seller_id = ? AND o.created_at >= ? AND o.status <> ?", sellerID, since, models.OrderCancelled).
		Group("DATE(o.created_at)").
		Order("day"))
}

// scanDaily DATE() comes back as time.Time on mysql and as text on sqlite.
func scanDaily(db *gorm.DB) ([]*types.DailyOrders, error) {
	rows, err := db.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*types.DailyOrders, 0)
	for rows.Next() {
		var (
			day     any
			count   int64
			revenue decimal.NullDecimal
		)
		if err := rows.Scan(&day, &count, &revenue); err != nil {
			return nil, err
		}
		d := &types.DailyOrders{OrdersCount: count, Revenue: revenue.Decimal}
		switch v := day.(type) {
		case time.Time:
			d.Date = v.Format(time.DateOnly)
		case []byte:
			d.Date = string(v)
		case string:
			d.Date = v
		}
		if len(d.Date) > len(time.DateOnly) {
			d.Date = d.Date[:len(time.DateOnly)]
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
