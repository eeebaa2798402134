package handler

import (
	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/response"
	"Pharmetix/service"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	order := r.Group("/v1/orders")
	order.POST("", authorize(o.Config, models.RoleCustomer), context.Wrap(o.CreateOrder))
	order.GET("/all", authorize(o.Config, models.RoleAdmin, models.RoleSeller), context.Wrap(o.GetOrders))
	order.GET("/customer", authorize(o.Config, models.RoleCustomer), context.Wrap(o.GetCustomerOrders))
	order.GET("/seller", authorize(o.Config, models.RoleSeller), context.Wrap(o.GetSellerOrders))
	order.GET("/:orderId", authorize(o.Config), context.Wrap(o.GetOrderByID))
	order.PATCH("/cancel-order/:orderId", authorize(o.Config, models.RoleCustomer), context.Wrap(o.CancelOrder))
	order.PATCH("/change-status/:orderId", authorize(o.Config, models.RoleAdmin), context.Wrap(o.ChangeOrderStatus))
	order.PATCH("/item/change-status/:orderItemId", authorize(o.Config, models.RoleSeller, models.RoleAdmin), context.Wrap(o.ChangeOrderItemStatus))
}

func (o *Order) CreateOrder(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateOrderRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	req.IdempotencyKey = c.GetHeader(HeaderIdempotencyKey)

	order, err := o.OrderService.CreateOrder(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Created(c, order)
	return nil
}

func (o *Order) GetOrders(c *gin.Context) error {
	viewer, err := context.GetViewer(c)
	if err != nil {
		return err
	}
	var q types.OrderListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := o.OrderService.GetOrders(c.Request.Context(), viewer, &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (o *Order) GetCustomerOrders(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := o.OrderService.GetCustomerOrders(c.Request.Context(), uid, &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (o *Order) GetSellerOrders(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.SellerOrderQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := o.OrderService.GetSellerOrders(c.Request.Context(), uid, &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (o *Order) GetOrderByID(c *gin.Context) error {
	viewer, err := context.GetViewer(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "orderId")
	if err != nil {
		return err
	}
	order, err := o.OrderService.GetOrderByID(c.Request.Context(), viewer, orderID)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (o *Order) CancelOrder(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "orderId")
	if err != nil {
		return err
	}
	order, err := o.OrderService.CancelCustomerOrder(c.Request.Context(), uid, orderID)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (o *Order) ChangeOrderStatus(c *gin.Context) error {
	orderID, err := paramID(c, "orderId")
	if err != nil {
		return err
	}
	var req types.ChangeOrderStatusRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	change, err := o.OrderService.ChangeOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		return err
	}
	response.Success(c, change)
	return nil
}

func (o *Order) ChangeOrderItemStatus(c *gin.Context) error {
	viewer, err := context.GetViewer(c)
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "orderItemId")
	if err != nil {
		return err
	}
	var req types.ChangeOrderItemStatusRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	change, err := o.OrderService.ChangeOrderItemStatus(c.Request.Context(), viewer, itemID, req.Status)
	if err != nil {
		return err
	}
	response.Success(c, change)
	return nil
}
