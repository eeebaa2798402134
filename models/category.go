package models

import "time"

type Category struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string     `gorm:"column:name;size:128;not null" json:"name"`
	Slug        string     `gorm:"column:slug;size:191;not null;uniqueIndex:idx_categories_slug" json:"slug"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Image       string     `gorm:"column:image;size:512;default:''" json:"image"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"isActive"`
	IsFeatured  bool       `gorm:"column:is_featured;not null;default:false" json:"isFeatured"`
	IsDeleted   bool       `gorm:"column:is_deleted;not null;default:false" json:"-"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
