package types

import (
	"time"

	"Pharmetix/models"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	MedicineID int64 `json:"medicineId" binding:"required"`
	Quantity   int   `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingName       string             `json:"shippingName" binding:"required"`
	ShippingPhone      string             `json:"shippingPhone" binding:"required"`
	ShippingAddress    string             `json:"shippingAddress" binding:"required"`
	ShippingCity       string             `json:"shippingCity" binding:"required"`
	ShippingPostalCode string             `json:"shippingPostalCode" binding:"required"`
	OrderItems         []OrderItemRequest `json:"orderItems" binding:"required,min=1,dive"`

	// IdempotencyKey comes from the Idempotency-Key header, never from the body.
	IdempotencyKey string `json:"-"`
}

type ChangeOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type ChangeOrderItemStatusRequest struct {
	Status models.OrderItemStatus `json:"status" binding:"required"`
}

// OrderListQuery admin/seller order list filters
type OrderListQuery struct {
	PageQuery
	Status []models.OrderStatus `form:"status"`
}

type SellerOrderQuery struct {
	PageQuery
	Status models.OrderItemStatus `form:"status"`
}

// StatusChange result of a status machine transition
type StatusChange struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type MedicineBrief struct {
	ID          int64           `json:"id"`
	Slug        string          `json:"slug,omitempty"`
	GenericName string          `json:"genericName"`
	BrandName   string          `json:"brandName"`
	Price       decimal.Decimal `json:"price"`
}

type OrderItemView struct {
	ID         int64                  `json:"id"`
	MedicineID int64                  `json:"medicineId"`
	SellerID   *int64                 `json:"sellerId,omitempty"`
	Quantity   int                    `json:"quantity"`
	UnitPrice  decimal.Decimal        `json:"unitPrice"`
	SubTotal   decimal.Decimal        `json:"subTotal"`
	Status     models.OrderItemStatus `json:"status"`
	Medicine   *MedicineBrief         `json:"medicine,omitempty"`
	IsReviewed bool                   `json:"isReviewed"`
	ReviewID   *int64                 `json:"reviewId"`
}

// OrderView role dependent projection of an order, built only by service.ProjectOrderForViewer
type OrderView struct {
	ID                 int64              `json:"id"`
	OrderNumber        string             `json:"orderNumber"`
	CustomerID         *int64             `json:"customerId,omitempty"`
	TotalAmount        decimal.Decimal    `json:"totalAmount"`
	ShippingName       string             `json:"shippingName"`
	ShippingPhone      string             `json:"shippingPhone"`
	ShippingAddress    string             `json:"shippingAddress"`
	ShippingCity       string             `json:"shippingCity"`
	ShippingPostalCode string             `json:"shippingPostalCode"`
	Status             models.OrderStatus `json:"status"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	OrderItems         []*OrderItemView   `json:"orderItems"`
}

type SellerOrderBrief struct {
	ID                 int64              `json:"id"`
	OrderNumber        string             `json:"orderNumber"`
	Status             models.OrderStatus `json:"status"`
	CreatedAt          time.Time          `json:"createdAt"`
	ShippingName       string             `json:"shippingName"`
	ShippingAddress    string             `json:"shippingAddress"`
	ShippingCity       string             `json:"shippingCity"`
	ShippingPostalCode string             `json:"shippingPostalCode"`
}

// SellerOrderItemView one line a seller has to fulfil
type SellerOrderItemView struct {
	ID        int64                  `json:"id"`
	Quantity  int                    `json:"quantity"`
	UnitPrice decimal.Decimal        `json:"unitPrice"`
	SubTotal  decimal.Decimal        `json:"subTotal"`
	Status    models.OrderItemStatus `json:"status"`
	Medicine  *MedicineBrief         `json:"medicine,omitempty"`
	Order     *SellerOrderBrief      `json:"order,omitempty"`
}

// OrderEvent published after an order transaction commits.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	CustomerID  int64           `json:"customerId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

const (
	OrderEventCreated       = "order.created"
	OrderEventCancelled     = "order.cancelled"
	OrderEventStatusChanged = "order.status_changed"
	OrderEventItemChanged   = "order.item_status_changed"
)
