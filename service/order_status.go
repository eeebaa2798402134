package service

import (
	"context"
	"errors"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/types"

	"gorm.io/gorm"
)

// 订单状态只允许逐级前进，CANCELLED 只能从 PLACED 进入
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPlaced:     {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped},
	models.OrderShipped:    {models.OrderDelivered},
}

var itemTransitions = map[models.OrderItemStatus][]models.OrderItemStatus{
	models.ItemPlaced:     {models.ItemProcessing, models.ItemCancelled},
	models.ItemProcessing: {models.ItemShipped},
	models.ItemShipped:    {models.ItemDelivered},
}

func CanTransitionOrder(from, to models.OrderStatus) error {
	if !to.Valid() {
		return errs.Validation("unknown order status %q", to)
	}
	if from == to {
		return errs.InvalidTransition("order status is already %s", to)
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return errs.InvalidTransition("order cannot move from %s to %s", from, to)
}

func CanTransitionItem(from, to models.OrderItemStatus) error {
	if !to.Valid() {
		return errs.Validation("unknown order item status %q", to)
	}
	if from == to {
		return errs.InvalidTransition("order item status is already %s", to)
	}
	for _, next := range itemTransitions[from] {
		if next == to {
			return nil
		}
	}
	return errs.InvalidTransition("order item cannot move from %s to %s", from, to)
}

// OrderStatusService persists status machine transitions; callers own the transaction.
type OrderStatusService struct {
	OrderRepo     *dao.Order
	OrderItemRepo *dao.OrderItem
}

var _ IOrderStatusService = (*OrderStatusService)(nil)

type IOrderStatusService interface {
	TransitionOrder(ctx context.Context, tx *gorm.DB, order *models.Order, to models.OrderStatus) (*types.StatusChange, error)
	TransitionOrderByID(ctx context.Context, tx *gorm.DB, orderID int64, to models.OrderStatus) (*types.StatusChange, error)
	TransitionOrderItem(ctx context.Context, tx *gorm.DB, item *models.OrderItem, to models.OrderItemStatus) (*types.StatusChange, error)
}

func (s *OrderStatusService) TransitionOrder(ctx context.Context, tx *gorm.DB, order *models.Order, to models.OrderStatus) (*types.StatusChange, error) {
	if err := CanTransitionOrder(order.Status, to); err != nil {
		return nil, err
	}
	if err := s.OrderRepo.UpdateStatus(ctx, tx, order.ID, to); err != nil {
		return nil, err
	}
	order.Status = to
	return &types.StatusChange{ID: order.ID, Status: string(to)}, nil
}

// TransitionOrderByID reads the order under a row lock before transitioning it.
func (s *OrderStatusService) TransitionOrderByID(ctx context.Context, tx *gorm.DB, orderID int64, to models.OrderStatus) (*types.StatusChange, error) {
	order, err := s.OrderRepo.FindForUpdate(ctx, tx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("order with ID %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return s.TransitionOrder(ctx, tx, order, to)
}

func (s *OrderStatusService) TransitionOrderItem(ctx context.Context, tx *gorm.DB, item *models.OrderItem, to models.OrderItemStatus) (*types.StatusChange, error) {
	if err := CanTransitionItem(item.Status, to); err != nil {
		return nil, err
	}
	if err := s.OrderItemRepo.UpdateStatus(ctx, tx, item.ID, to); err != nil {
		return nil, err
	}
	item.Status = to
	return &types.StatusChange{ID: item.ID, Status: string(to)}, nil
}
