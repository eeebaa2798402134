package dao

import (
	"context"
	"time"

	"Pharmetix/models"
	"Pharmetix/types"

	"gorm.io/gorm"
)

var userSorts = SortColumns{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
}

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.Users, error) {
	return u.Repo.FindByWhere(ctx, "email = ?", email)
}

func (u *Users) List(ctx context.Context, ps Predicates, q types.PageQuery) ([]*models.Users, int64, error) {
	db := ps.Apply(u.Db.WithContext(ctx).Model(&models.Users{}))
	return u.Page(ctx, db, q, userSorts, "created_at")
}

func (u *Users) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return u.Db.WithContext(ctx).
		Model(&models.Users{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}
