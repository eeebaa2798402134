package dao

import (
	"context"

	"Pharmetix/models"
	"Pharmetix/types"

	"gorm.io/gorm"
)

var categorySorts = SortColumns{
	"createdAt": "created_at",
	"name":      "name",
}

type Category struct {
	Repo[models.Category]
}

func NewCategory(db *gorm.DB) *Category {
	return &Category{Repo: NewRepo[models.Category](db)}
}

// FindUsable 可挂药品的分类：启用且未删除
func (c *Category) FindUsable(ctx context.Context, id int64) (*models.Category, error) {
	return c.FindByWhere(ctx, "id = ? AND is_active = ? AND is_deleted = ?", id, true, false)
}

func (c *Category) FindVisible(ctx context.Context, id int64) (*models.Category, error) {
	return c.FindByWhere(ctx, "id = ? AND is_deleted = ?", id, false)
}

func (c *Category) SlugTaken(ctx context.Context, slug string, ignoreID int64) (bool, error) {
	if ignoreID > 0 {
		return c.IsExist(ctx, "slug = ? AND id <> ?", slug, ignoreID)
	}
	return c.IsExist(ctx, "slug = ?", slug)
}

func (c *Category) List(ctx context.Context, ps Predicates, q types.PageQuery) ([]*models.Category, int64, error) {
	db := ps.Apply(c.Db.WithContext(ctx).Model(&models.Category{}))
	return c.Page(ctx, db, q, categorySorts, "created_at")
}
