package service

import (
	"context"
	"testing"

	"Pharmetix/internal/testdb"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStock(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "12.50", 10)

	adj, err := e.stock.AdjustStock(ctx, nil, types.StockChange{
		MedicineID: med.ID, Operation: models.StockDecrement, Quantity: 4, Reason: types.StockReasonOrderPlaced,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, adj.NewStockQuantity)

	adj, err = e.stock.AdjustStock(ctx, nil, types.StockChange{
		MedicineID: med.ID, Operation: models.StockIncrement, Quantity: 2, Reason: types.StockReasonRestock,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, adj.NewStockQuantity)
	assert.Equal(t, 8, testdb.Stock(t, e.db, med.ID))

	moves, err := e.stock.Movements(ctx, med.ID, 0)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	// newest first
	assert.Equal(t, 2, moves[0].Delta)
	assert.Equal(t, 8, moves[0].BalanceAfter)
	assert.Equal(t, -4, moves[1].Delta)
	assert.Equal(t, types.StockReasonOrderPlaced, moves[1].Reason)
}

func TestAdjustStock_Rejections(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "3.00", 5)

	tests := []struct {
		name   string
		change types.StockChange
		want   error
	}{
		{"zero quantity", types.StockChange{MedicineID: med.ID, Operation: models.StockDecrement, Quantity: 0}, errs.ErrInvalidQuantity},
		{"negative quantity", types.StockChange{MedicineID: med.ID, Operation: models.StockIncrement, Quantity: -3}, errs.ErrInvalidQuantity},
		{"more than available", types.StockChange{MedicineID: med.ID, Operation: models.StockDecrement, Quantity: 6}, errs.ErrInsufficientStock},
		{"unknown medicine", types.StockChange{MedicineID: med.ID + 100, Operation: models.StockIncrement, Quantity: 1}, errs.ErrNotFound},
		{"unknown operation", types.StockChange{MedicineID: med.ID, Operation: "SET", Quantity: 1}, errs.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.stock.AdjustStock(ctx, nil, tt.change)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 5, testdb.Stock(t, e.db, med.ID))
		})
	}

	moves, err := e.stock.Movements(ctx, med.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestAdjustStock_DrainToZero(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "3.00", 3)

	adj, err := e.stock.AdjustStock(ctx, nil, types.StockChange{MedicineID: med.ID, Operation: models.StockDecrement, Quantity: 3})
	require.NoError(t, err)
	assert.Zero(t, adj.NewStockQuantity)

	_, err = e.stock.AdjustStock(ctx, nil, types.StockChange{MedicineID: med.ID, Operation: models.StockDecrement, Quantity: 1})
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Zero(t, testdb.Stock(t, e.db, med.ID))
}
