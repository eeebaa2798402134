package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单主表，total_amount 在下单时由明细小计汇总，之后不再按药品现价重算
type Order struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderNumber        string          `gorm:"column:order_number;size:32;not null;uniqueIndex:idx_orders_number" json:"orderNumber"`
	CustomerID         int64           `gorm:"column:customer_id;not null;index:idx_orders_customer" json:"customerId"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(14,2);not null" json:"totalAmount"`
	ShippingName       string          `gorm:"column:shipping_name;size:128;not null" json:"shippingName"`
	ShippingPhone      string          `gorm:"column:shipping_phone;size:32;not null" json:"shippingPhone"`
	ShippingAddress    string          `gorm:"column:shipping_address;size:255;not null" json:"shippingAddress"`
	ShippingCity       string          `gorm:"column:shipping_city;size:64;not null" json:"shippingCity"`
	ShippingPostalCode string          `gorm:"column:shipping_postal_code;size:16;not null" json:"shippingPostalCode"`
	Status             OrderStatus     `gorm:"column:status;size:16;not null;default:PLACED;index:idx_orders_status" json:"status"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_orders_created" json:"createdAt"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Items []*OrderItem `gorm:"foreignKey:OrderID" json:"orderItems,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细，seller_id 与 unit_price 均为下单时快照
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID    int64           `gorm:"column:order_id;not null;index:idx_order_items_order" json:"orderId"`
	MedicineID int64           `gorm:"column:medicine_id;not null;index:idx_order_items_medicine" json:"medicineId"`
	SellerID   int64           `gorm:"column:seller_id;not null;index:idx_order_items_seller" json:"sellerId"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null" json:"unitPrice"`
	SubTotal   decimal.Decimal `gorm:"column:sub_total;type:decimal(14,2);not null" json:"subTotal"`
	Status     OrderItemStatus `gorm:"column:status;size:16;not null;default:PLACED" json:"status"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Order    *Order    `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
