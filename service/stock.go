package service

import (
	"context"
	"errors"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/metrics"
	"Pharmetix/types"

	"gorm.io/gorm"
)

// StockService 库存台账：唯一修改 stock_quantity 的入口（卖家直接编辑除外）
type StockService struct {
	DB            *gorm.DB
	MedicineRepo  *dao.Medicine
	MovementsRepo *dao.StockMovement
}

var _ IStockService = (*StockService)(nil)

type IStockService interface {
	// AdjustStock runs inside tx when given, otherwise in its own transaction.
	AdjustStock(ctx context.Context, tx *gorm.DB, change types.StockChange) (*types.StockAdjustment, error)
	Movements(ctx context.Context, medicineID int64, limit int) ([]*models.StockMovement, error)
}

func (s *StockService) AdjustStock(ctx context.Context, tx *gorm.DB, change types.StockChange) (*types.StockAdjustment, error) {
	if change.Quantity <= 0 {
		return nil, errs.InvalidQuantity("stock quantity must be a positive number, got %d", change.Quantity)
	}

	var delta int
	switch change.Operation {
	case models.StockIncrement:
		delta = change.Quantity
	case models.StockDecrement:
		delta = -change.Quantity
	default:
		return nil, errs.Validation("unknown stock operation %q", change.Operation)
	}

	if tx == nil {
		var out *types.StockAdjustment
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			out, err = s.adjust(ctx, tx, change, delta)
			return err
		})
		return out, err
	}
	return s.adjust(ctx, tx, change, delta)
}

func (s *StockService) adjust(ctx context.Context, tx *gorm.DB, change types.StockChange, delta int) (*types.StockAdjustment, error) {
	affected, err := s.MedicineRepo.AddStock(ctx, tx, change.MedicineID, delta)
	if err != nil {
		return nil, err
	}

	balance, err := s.MedicineRepo.StockOf(ctx, tx, change.MedicineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("medicine with ID %d not found", change.MedicineID)
	}
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errs.InsufficientStock("insufficient stock for medicine ID %d: requested %d, available %d",
			change.MedicineID, change.Quantity, balance)
	}

	movement := &models.StockMovement{
		MedicineID:   change.MedicineID,
		Operation:    change.Operation,
		Delta:        delta,
		BalanceAfter: balance,
		Reason:       change.Reason,
		OrderID:      change.OrderID,
	}
	if err := s.MovementsRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	metrics.StockAdjustments.WithLabelValues(string(change.Operation)).Inc()
	metrics.StockUnits.WithLabelValues(string(change.Operation)).Add(float64(change.Quantity))

	return &types.StockAdjustment{MedicineID: change.MedicineID, NewStockQuantity: balance}, nil
}

func (s *StockService) Movements(ctx context.Context, medicineID int64, limit int) ([]*models.StockMovement, error) {
	if limit <= 0 || limit > types.MaxLimit {
		limit = types.DefaultLimit
	}
	return s.MovementsRepo.ListByMedicine(ctx, medicineID, limit)
}
