package types

import "Pharmetix/models"

// StockChange one ledger adjustment request
type StockChange struct {
	MedicineID int64
	Operation  models.StockOperation
	Quantity   int
	Reason     string
	OrderID    *int64
}

type StockAdjustment struct {
	MedicineID       int64 `json:"medicineId"`
	NewStockQuantity int   `json:"newStockQuantity"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

const (
	StockReasonOrderPlaced    = "order_placed"
	StockReasonOrderCancelled = "order_cancelled"
	StockReasonRestock        = "seller_restock"
	StockReasonSellerEdit     = "seller_edit"
	StockReasonInitial        = "initial_stock"
)
