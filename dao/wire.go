package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewCategory,
	NewMedicine,
	NewStockMovement,
	NewOrder,
	NewOrderItem,
	NewReview,
	NewStats,
)
