package dao

import (
	"context"
	"time"

	"Pharmetix/models"
	"Pharmetix/types"

	"gorm.io/gorm"
)

var medicineSorts = SortColumns{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"price":         "price",
	"stockQuantity": "stock_quantity",
	"genericName":   "generic_name",
	"brandName":     "brand_name",
	"expiryDate":    "expiry_date",
}

type Medicine struct {
	Repo[models.Medicine]
}

func NewMedicine(db *gorm.DB) *Medicine {
	return &Medicine{Repo: NewRepo[models.Medicine](db)}
}

// FindVisible 未软删除的药品，带分类
func (m *Medicine) FindVisible(ctx context.Context, id int64) (*models.Medicine, error) {
	var med models.Medicine
	err := m.Db.WithContext(ctx).
		Preload("Category").
		Where("is_deleted = ?", false).
		First(&med, id).Error
	if err != nil {
		return nil, err
	}
	return &med, nil
}

func (m *Medicine) FindBySlug(ctx context.Context, slug string) (*models.Medicine, error) {
	var med models.Medicine
	err := m.Db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&med).Error
	if err != nil {
		return nil, err
	}
	return &med, nil
}

// SlugTaken ignoreID excludes the medicine being updated.
func (m *Medicine) SlugTaken(ctx context.Context, slug string, ignoreID int64) (bool, error) {
	if ignoreID > 0 {
		return m.IsExist(ctx, "slug = ? AND id <> ?", slug, ignoreID)
	}
	return m.IsExist(ctx, "slug = ?", slug)
}

// AddStock applies delta to stock_quantity. A negative delta only matches when enough
// stock is left, so zero affected rows means the medicine is missing or would go negative.
func (m *Medicine) AddStock(ctx context.Context, tx *gorm.DB, id int64, delta int) (int64, error) {
	q := m.Conn(ctx, tx).Model(&models.Medicine{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock_quantity >= ?", -delta)
	}
	res := q.Updates(map[string]any{
		"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
		"updated_at":     time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (m *Medicine) StockOf(ctx context.Context, tx *gorm.DB, id int64) (int, error) {
	var med models.Medicine
	if err := m.Conn(ctx, tx).Select("id", "stock_quantity").First(&med, id).Error; err != nil {
		return 0, err
	}
	return med.StockQuantity, nil
}

func (m *Medicine) List(ctx context.Context, ps Predicates, q types.PageQuery) ([]*models.Medicine, int64, error) {
	db := ps.Apply(m.Db.WithContext(ctx).Model(&models.Medicine{}))
	return m.Page(ctx, db, q, medicineSorts, "created_at", "Category")
}

func (m *Medicine) CountInCategory(ctx context.Context, categoryID int64) (int64, error) {
	return m.FindCount(ctx, "category_id = ? AND is_deleted = ?", categoryID, false)
}

// CountByCategories medicine count per category, deleted medicines excluded.
func (m *Medicine) CountByCategories(ctx context.Context, categoryIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CategoryID int64
		Total      int64
	}
	err := m.Model(ctx).
		Select("category_id, COUNT(*) AS total").
		Where("category_id IN ? AND is_deleted = ?", categoryIDs, false).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CategoryID] = r.Total
	}
	return out, nil
}

func (m *Medicine) SoftDelete(ctx context.Context, id int64) error {
	return m.Db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "is_active": false}).Error
}

type StockMovement struct {
	Repo[models.StockMovement]
}

func NewStockMovement(db *gorm.DB) *StockMovement {
	return &StockMovement{Repo: NewRepo[models.StockMovement](db)}
}

func (s *StockMovement) ListByMedicine(ctx context.Context, medicineID int64, limit int) ([]*models.StockMovement, error) {
	var out []*models.StockMovement
	err := s.Db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *StockMovement) ListByOrder(ctx context.Context, tx *gorm.DB, orderID int64) ([]*models.StockMovement, error) {
	var out []*models.StockMovement
	err := s.Conn(ctx, tx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&out).Error
	return out, err
}
