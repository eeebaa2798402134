package dao

import (
	"context"
	"time"

	"Pharmetix/models"
	"Pharmetix/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSorts = SortColumns{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"totalAmount": "total_amount",
	"status":      "status",
	"orderNumber": "order_number",
}

type Order struct {
	Repo[models.Order]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{Repo: NewRepo[models.Order](db)}
}

// CreateWithItems 主表与明细在同一事务中写入
func (o *Order) CreateWithItems(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := o.Conn(ctx, tx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for _, item := range order.Items {
		item.OrderID = order.ID
	}
	return db.Omit(clause.Associations).Create(&order.Items).Error
}

// FindWithItems lock takes a row lock on the order before its items are read.
func (o *Order) FindWithItems(ctx context.Context, tx *gorm.DB, id int64, lock bool) (*models.Order, error) {
	db := o.Conn(ctx, tx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var order models.Order
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Medicine").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status models.OrderStatus) error {
	return o.Conn(ctx, tx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (o *Order) List(ctx context.Context, ps Predicates, q types.PageQuery) ([]*models.Order, int64, error) {
	db := ps.Apply(o.Db.WithContext(ctx).Model(&models.Order{}))
	return o.Page(ctx, db, q, orderSorts, "created_at", "Items", "Items.Medicine")
}

// SellerScope orders containing at least one item sold by sellerID.
func SellerScope(sellerID int64) Predicate {
	return Raw("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.seller_id = ?)", sellerID)
}

type OrderItem struct {
	Repo[models.OrderItem]
}

func NewOrderItem(db *gorm.DB) *OrderItem {
	return &OrderItem{Repo: NewRepo[models.OrderItem](db)}
}

func (o *OrderItem) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status models.OrderItemStatus) error {
	return o.Conn(ctx, tx).
		Model(&models.OrderItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

// ListBySeller 卖家待履约明细，按所属订单的下单时间排序
func (o *OrderItem) ListBySeller(ctx context.Context, sellerID int64, status models.OrderItemStatus, q types.PageQuery) ([]*models.OrderItem, int64, error) {
	db := Predicates{
		Eq("order_items.seller_id", sellerID),
		Eq("order_items.status", status),
	}.Apply(o.Db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id"))

	sorts := SortColumns{"createdAt": "orders.created_at"}
	return o.Page(ctx, db, q, sorts, "orders.created_at", "Medicine", "Order")
}
