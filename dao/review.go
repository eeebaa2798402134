package dao

import (
	"context"

	"Pharmetix/models"
	"Pharmetix/types"

	"gorm.io/gorm"
)

var reviewSorts = SortColumns{
	"createdAt": "created_at",
	"rating":    "rating",
}

type Review struct {
	Repo[models.Review]
}

func NewReview(db *gorm.DB) *Review {
	return &Review{Repo: NewRepo[models.Review](db)}
}

func (r *Review) Exists(ctx context.Context, customerID, orderID, medicineID int64) (bool, error) {
	return r.IsExist(ctx, "customer_id = ? AND order_id = ? AND medicine_id = ?", customerID, orderID, medicineID)
}

// ByOrder medicine id -> review written by customerID for that order
func (r *Review) ByOrder(ctx context.Context, orderID, customerID int64) (map[int64]*models.Review, error) {
	var reviews []*models.Review
	err := r.Db.WithContext(ctx).
		Where("order_id = ? AND customer_id = ?", orderID, customerID).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*models.Review, len(reviews))
	for _, rv := range reviews {
		out[rv.MedicineID] = rv
	}
	return out, nil
}

func (r *Review) Latest(ctx context.Context, limit int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.Db.WithContext(ctx).
		Preload("Customer").
		Preload("Medicine").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *Review) List(ctx context.Context, ps Predicates, q types.PageQuery) ([]*models.Review, int64, error) {
	db := ps.Apply(r.Db.WithContext(ctx).Model(&models.Review{}))
	return r.Page(ctx, db, q, reviewSorts, "created_at", "Customer", "Medicine")
}
