package models

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSeller   Role = "SELLER"
	RoleCustomer Role = "CUSTOMER"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
	UserBanned   UserStatus = "BANNED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserBanned:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPlaced     OrderStatus = "PLACED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItemStatus tracks one seller's fulfillment of a line, independent of the order status.
type OrderItemStatus string

const (
	ItemPlaced     OrderItemStatus = "PLACED"
	ItemProcessing OrderItemStatus = "PROCESSING"
	ItemShipped    OrderItemStatus = "SHIPPED"
	ItemDelivered  OrderItemStatus = "DELIVERED"
	ItemCancelled  OrderItemStatus = "CANCELLED"
)

func (s OrderItemStatus) Valid() bool {
	switch s {
	case ItemPlaced, ItemProcessing, ItemShipped, ItemDelivered, ItemCancelled:
		return true
	}
	return false
}

type DosageForm string

const (
	DosageTablet    DosageForm = "TABLET"
	DosageCapsule   DosageForm = "CAPSULE"
	DosageSyrup     DosageForm = "SYRUP"
	DosageInjection DosageForm = "INJECTION"
	DosageOintment  DosageForm = "OINTMENT"
	DosageDrops     DosageForm = "DROPS"
	DosageOther     DosageForm = "OTHER"
)

func (d DosageForm) Valid() bool {
	switch d {
	case DosageTablet, DosageCapsule, DosageSyrup, DosageInjection, DosageOintment, DosageDrops, DosageOther:
		return true
	}
	return false
}

type StockOperation string

const (
	StockIncrement StockOperation = "INC"
	StockDecrement StockOperation = "DEC"
)
