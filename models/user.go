package models

import "time"

// Users 用户表，账号与会话由认证服务维护，这里只读写角色与状态
type Users struct {
	ID        int64      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string     `gorm:"column:name;size:128;not null" json:"name"`
	Email     string     `gorm:"column:email;size:191;not null;uniqueIndex:idx_users_email" json:"email"`
	Image     string     `gorm:"column:image;size:512;default:''" json:"image"`
	Role      Role       `gorm:"column:role;size:16;not null;default:CUSTOMER;index:idx_users_role" json:"role"`
	Status    UserStatus `gorm:"column:status;size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Users) TableName() string {
	return "users"
}
