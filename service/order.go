package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"Pharmetix/config"
	"Pharmetix/dao"
	"Pharmetix/dao/cache"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/log"
	"Pharmetix/pkg/metrics"
	"Pharmetix/pkg/snowflake"
	"Pharmetix/pkg/utils"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	DB            *gorm.DB
	Config        *config.Config
	OrderRepo     *dao.Order
	OrderItemRepo *dao.OrderItem
	ReviewRepo    *dao.Review
	Catalog       ICatalogLookup
	Stock         IStockService
	Status        IOrderStatusService
	Idempotency   *cache.IdempotencyStorage
	Events        IOrderEventPublisher
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	CreateOrder(ctx context.Context, customerID int64, req *types.CreateOrderRequest) (*types.OrderView, error)
	CancelCustomerOrder(ctx context.Context, customerID, orderID int64) (*types.OrderView, error)
	ChangeOrderStatus(ctx context.Context, orderID int64, to models.OrderStatus) (*types.StatusChange, error)
	ChangeOrderItemStatus(ctx context.Context, viewer types.Viewer, itemID int64, to models.OrderItemStatus) (*types.StatusChange, error)
	GetOrders(ctx context.Context, viewer types.Viewer, q *types.OrderListQuery) (*types.ListResult[*types.OrderView], error)
	GetCustomerOrders(ctx context.Context, customerID int64, q *types.PageQuery) (*types.ListResult[*types.OrderView], error)
	GetSellerOrders(ctx context.Context, sellerID int64, q *types.SellerOrderQuery) (*types.ListResult[*types.SellerOrderItemView], error)
	GetOrderByID(ctx context.Context, viewer types.Viewer, orderID int64) (*types.OrderView, error)
}

// orderLine one merged line of a create order request
type orderLine struct {
	MedicineID int64
	Quantity   int
}

// normalizeOrder validates the payload and merges repeated medicines, ordered by medicine id.
func normalizeOrder(req *types.CreateOrderRequest) ([]orderLine, error) {
	if req == nil || len(req.OrderItems) == 0 {
		return nil, errs.Validation("order must contain at least one item")
	}
	shipping := [][2]string{
		{"shippingName", req.ShippingName},
		{"shippingPhone", req.ShippingPhone},
		{"shippingAddress", req.ShippingAddress},
		{"shippingCity", req.ShippingCity},
		{"shippingPostalCode", req.ShippingPostalCode},
	}
	for _, f := range shipping {
		if strings.TrimSpace(f[1]) == "" {
			return nil, errs.Validation("%s is required", f[0])
		}
	}

	qty := make(map[int64]int, len(req.OrderItems))
	for _, it := range req.OrderItems {
		if it.MedicineID <= 0 {
			return nil, errs.Validation("invalid medicine ID %d", it.MedicineID)
		}
		if it.Quantity <= 0 {
			return nil, errs.InvalidQuantity("invalid quantity %d for medicine ID %d", it.Quantity, it.MedicineID)
		}
		qty[it.MedicineID] += it.Quantity
	}

	lines := make([]orderLine, 0, len(qty))
	for id, q := range qty {
		lines = append(lines, orderLine{MedicineID: id, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MedicineID < lines[j].MedicineID })
	return lines, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, customerID int64, req *types.CreateOrderRequest) (*types.OrderView, error) {
	lines, err := normalizeOrder(req)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("create", "rejected").Inc()
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	ttl := s.Config.Order.IdempotencyTTL()
	if key != "" {
		ok, err := s.Idempotency.Acquire(ctx, customerID, key, ttl)
		if err != nil {
			return nil, err
		}
		if !ok {
			if id, _ := s.Idempotency.OrderID(ctx, customerID, key); id > 0 {
				return nil, errs.Conflict("an order with Idempotency-Key %q was already placed as order %d", key, id)
			}
			return nil, errs.Conflict("an order with Idempotency-Key %q was already submitted", key)
		}
	}

	var order *models.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 加锁读取药品（按 id 升序），校验库存并快照单价
		items := make([]*models.OrderItem, 0, len(lines))
		total := decimal.Zero
		for _, line := range lines {
			med, err := s.Catalog.GetMedicineForOrder(ctx, tx, line.MedicineID)
			if err != nil {
				return err
			}
			if med == nil {
				return errs.NotFound("medicine with ID %d not found", line.MedicineID)
			}
			if line.Quantity > med.StockQuantity {
				return errs.InsufficientStock("insufficient stock for medicine ID %d: requested %d, available %d",
					line.MedicineID, line.Quantity, med.StockQuantity)
			}
			subTotal := med.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, &models.OrderItem{
				MedicineID: med.ID,
				SellerID:   med.SellerID,
				Quantity:   line.Quantity,
				UnitPrice:  med.Price,
				SubTotal:   subTotal,
				Status:     models.ItemPlaced,
			})
			total = total.Add(subTotal)
		}

		// 2. 写订单与明细
		number, err := utils.GenOrderNumber(s.Config.App.HashSalt, snowflake.GenID())
		if err != nil {
			return err
		}
		created := &models.Order{
			OrderNumber:        number,
			CustomerID:         customerID,
			TotalAmount:        total,
			ShippingName:       strings.TrimSpace(req.ShippingName),
			ShippingPhone:      strings.TrimSpace(req.ShippingPhone),
			ShippingAddress:    strings.TrimSpace(req.ShippingAddress),
			ShippingCity:       strings.TrimSpace(req.ShippingCity),
			ShippingPostalCode: strings.TrimSpace(req.ShippingPostalCode),
			Status:             models.OrderPlaced,
			Items:              items,
		}
		if err := s.OrderRepo.CreateWithItems(ctx, tx, created); err != nil {
			return err
		}

		// 3. 扣减库存
		orderID := created.ID
		for _, item := range items {
			if _, err := s.Stock.AdjustStock(ctx, tx, types.StockChange{
				MedicineID: item.MedicineID,
				Operation:  models.StockDecrement,
				Quantity:   item.Quantity,
				Reason:     types.StockReasonOrderPlaced,
				OrderID:    &orderID,
			}); err != nil {
				return err
			}
		}

		// 4. 回读完整订单
		order, err = s.OrderRepo.FindWithItems(ctx, tx, orderID, false)
		return err
	})
	metrics.OrdersTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		if key != "" {
			if rerr := s.Idempotency.Release(ctx, customerID, key); rerr != nil {
				log.L.Warn("release idempotency key", zap.String("key", key), zap.Error(rerr))
			}
		}
		if errs.KindOf(err) == "" {
			log.L.Error("create order", zap.Int64("customer_id", customerID), zap.Error(err))
		}
		return nil, err
	}

	if key != "" {
		if err := s.Idempotency.Complete(ctx, customerID, key, order.ID, ttl); err != nil {
			log.L.Warn("complete idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
	log.L.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("customer_id", customerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	s.Events.Publish(ctx, newOrderEvent(types.OrderEventCreated, order, string(order.Status)))

	return ProjectOrderForViewer(order, types.Viewer{ID: customerID, Role: models.RoleCustomer}), nil
}

func (s *OrderService) CancelCustomerOrder(ctx context.Context, customerID, orderID int64) (*types.OrderView, error) {
	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.OrderRepo.FindWithItems(ctx, tx, orderID, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("order with ID %d not found", orderID)
		}
		if err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return errs.Forbidden("you are not authorized to cancel this order")
		}
		if order.Status == models.OrderCancelled {
			return errs.InvalidTransition("order is already CANCELLED")
		}
		if order.Status != models.OrderPlaced {
			return errs.InvalidTransition("order cannot be cancelled because it is already %s", order.Status)
		}

		// 1. 订单与明细置为 CANCELLED，已发货或已送达的明细不可取消
		if _, err := s.Status.TransitionOrder(ctx, tx, order, models.OrderCancelled); err != nil {
			return err
		}
		for _, item := range order.Items {
			if _, err := s.Status.TransitionOrderItem(ctx, tx, item, models.ItemCancelled); err != nil {
				return err
			}
		}

		// 2. 按下单数量回补库存，加锁顺序与下单一致
		items := make([]*models.OrderItem, len(order.Items))
		copy(items, order.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].MedicineID < items[j].MedicineID })
		for _, item := range items {
			if _, err := s.Stock.AdjustStock(ctx, tx, types.StockChange{
				MedicineID: item.MedicineID,
				Operation:  models.StockIncrement,
				Quantity:   item.Quantity,
				Reason:     types.StockReasonOrderCancelled,
				OrderID:    &order.ID,
			}); err != nil {
				return err
			}
		}

		order, err = s.OrderRepo.FindWithItems(ctx, tx, orderID, false)
		return err
	})
	metrics.OrdersTotal.WithLabelValues("cancel", metrics.Result(err)).Inc()
	if err != nil {
		if errs.KindOf(err) == "" {
			log.L.Error("cancel order", zap.Int64("order_id", orderID), zap.Error(err))
		}
		return nil, err
	}

	log.L.Info("order cancelled", zap.Int64("order_id", order.ID), zap.Int64("customer_id", customerID))
	s.Events.Publish(ctx, newOrderEvent(types.OrderEventCancelled, order, string(order.Status)))

	return ProjectOrderForViewer(order, types.Viewer{ID: customerID, Role: models.RoleCustomer}), nil
}

// ChangeOrderStatus admin driven progress; cancellation has its own flow because it restores stock.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, orderID int64, to models.OrderStatus) (*types.StatusChange, error) {
	var (
		change *types.StatusChange
		order  *models.Order
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.OrderRepo.FindForUpdate(ctx, tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("order with ID %d not found", orderID)
		}
		if err != nil {
			return err
		}
		if to == models.OrderCancelled {
			return errs.InvalidTransition("orders are cancelled through cancel-order")
		}
		change, err = s.Status.TransitionOrder(ctx, tx, order, to)
		return err
	})
	metrics.OrdersTotal.WithLabelValues("change_status", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, newOrderEvent(types.OrderEventStatusChanged, order, change.Status))
	return change, nil
}

func (s *OrderService) ChangeOrderItemStatus(ctx context.Context, viewer types.Viewer, itemID int64, to models.OrderItemStatus) (*types.StatusChange, error) {
	if !viewer.IsAdmin() && !viewer.IsSeller() {
		return nil, errs.Forbidden("only sellers and admins can update order items")
	}
	if to == models.ItemCancelled {
		return nil, errs.InvalidTransition("order items are cancelled with their order")
	}

	var (
		change *types.StatusChange
		item   *models.OrderItem
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.OrderItemRepo.FindForUpdate(ctx, tx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("order item with ID %d not found", itemID)
		}
		if err != nil {
			return err
		}
		if viewer.IsSeller() && item.SellerID != viewer.ID {
			return errs.Forbidden("you are not authorized to update this order item")
		}
		change, err = s.Status.TransitionOrderItem(ctx, tx, item, to)
		return err
	})
	metrics.OrdersTotal.WithLabelValues("change_item_status", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, &types.OrderEvent{
		Type:       types.OrderEventItemChanged,
		OrderID:    item.OrderID,
		Status:     change.Status,
		OccurredAt: time.Now(),
	})
	return change, nil
}

func (s *OrderService) GetOrders(ctx context.Context, viewer types.Viewer, q *types.OrderListQuery) (*types.ListResult[*types.OrderView], error) {
	for _, st := range q.Status {
		if !st.Valid() {
			return nil, errs.Validation("unknown order status %q", st)
		}
	}
	if !viewer.IsAdmin() && !viewer.IsSeller() {
		return nil, errs.Forbidden("only sellers and admins can list all orders")
	}

	ps := dao.Predicates{
		dao.In("status", q.Status),
		dao.When(viewer.IsSeller(), dao.SellerScope(viewer.ID)),
	}
	page := q.PageQuery.Normalize()
	orders, total, err := s.OrderRepo.List(ctx, ps, page)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[*types.OrderView]{
		Data:  ProjectOrdersForViewer(orders, viewer),
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID int64, q *types.PageQuery) (*types.ListResult[*types.OrderView], error) {
	page := q.Normalize()
	orders, total, err := s.OrderRepo.List(ctx, dao.Predicates{dao.Eq("customer_id", customerID)}, page)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[*types.OrderView]{
		Data:  ProjectOrdersForViewer(orders, types.Viewer{ID: customerID, Role: models.RoleCustomer}),
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *OrderService) GetSellerOrders(ctx context.Context, sellerID int64, q *types.SellerOrderQuery) (*types.ListResult[*types.SellerOrderItemView], error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, errs.Validation("unknown order item status %q", q.Status)
	}
	page := q.PageQuery.Normalize()
	items, total, err := s.OrderItemRepo.ListBySeller(ctx, sellerID, q.Status, page)
	if err != nil {
		return nil, err
	}
	data := make([]*types.SellerOrderItemView, 0, len(items))
	for _, item := range items {
		data = append(data, sellerOrderItemView(item))
	}
	return &types.ListResult[*types.SellerOrderItemView]{
		Data:  data,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, viewer types.Viewer, orderID int64) (*types.OrderView, error) {
	order, err := s.OrderRepo.FindWithItems(ctx, nil, orderID, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("order with ID %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case viewer.IsAdmin():
	case viewer.IsSeller():
		if !hasItemsOf(order, viewer.ID) {
			return nil, errs.Forbidden("you are not authorized to view this order")
		}
	case order.CustomerID != viewer.ID:
		return nil, errs.Forbidden("you are not authorized to view this order")
	}

	view := ProjectOrderForViewer(order, viewer)

	// 评价状态以下单客户为准
	reviews, err := s.ReviewRepo.ByOrder(ctx, order.ID, order.CustomerID)
	if err != nil {
		return nil, err
	}
	for _, item := range view.OrderItems {
		if rv, ok := reviews[item.MedicineID]; ok {
			id := rv.ID
			item.IsReviewed = true
			item.ReviewID = &id
		}
	}
	return view, nil
}
