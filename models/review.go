package models

import "time"

// Review 一个客户对同一订单中的同一药品只能评价一次
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	CustomerID int64     `gorm:"column:customer_id;not null;uniqueIndex:idx_reviews_triple,priority:1" json:"customerId"`
	OrderID    int64     `gorm:"column:order_id;not null;uniqueIndex:idx_reviews_triple,priority:2" json:"orderId"`
	MedicineID int64     `gorm:"column:medicine_id;not null;uniqueIndex:idx_reviews_triple,priority:3;index:idx_reviews_medicine" json:"medicineId"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
	Customer *Users    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
