package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"Pharmetix/internal/testdb"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	*env
	customer *models.Users
	seller   *models.Users
	seller2  *models.Users
	admin    *models.Users
	med      *models.Medicine
	other    *models.Medicine
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	e := newEnv(t, nil)
	f := &orderFixture{
		env:      e,
		customer: testdb.User(t, e.db, models.RoleCustomer),
		seller:   testdb.User(t, e.db, models.RoleSeller),
		seller2:  testdb.User(t, e.db, models.RoleSeller),
		admin:    testdb.User(t, e.db, models.RoleAdmin),
	}
	cat := testdb.Category(t, e.db)
	f.med = testdb.Medicine(t, e.db, f.seller.ID, cat.ID, "12.50", 10)
	f.other = testdb.Medicine(t, e.db, f.seller2.ID, cat.ID, "3.20", 5)
	return f
}

func (f *orderFixture) viewer(u *models.Users) types.Viewer {
	return types.Viewer{ID: u.ID, Role: u.Role}
}

func TestCreateOrder_ReservesStockAndSnapshotsPrice(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 3)))
	require.NoError(t, err)

	assert.Equal(t, models.OrderPlaced, view.Status)
	assert.True(t, strings.HasPrefix(view.OrderNumber, "PMX-"))
	assert.Nil(t, view.CustomerID, "customers never see the customer id block")
	require.Len(t, view.OrderItems, 1)
	item := view.OrderItems[0]
	assert.Nil(t, item.SellerID)
	assert.Equal(t, models.ItemPlaced, item.Status)
	assert.True(t, decimal.RequireFromString("12.50").Equal(item.UnitPrice))
	assert.True(t, decimal.RequireFromString("37.50").Equal(item.SubTotal))
	assert.True(t, decimal.RequireFromString("37.50").Equal(view.TotalAmount))
	assert.Equal(t, 7, testdb.Stock(t, f.db, f.med.ID))

	// later price changes don't touch the snapshot
	_, err = f.medicine.UpdateMedicine(ctx, f.seller.ID, f.med.ID, &types.UpdateMedicineRequest{Price: ptr(decimal.RequireFromString("20.00"))})
	require.NoError(t, err)
	got, err := f.order.GetOrderByID(ctx, f.viewer(f.customer), view.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.OrderItems[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("37.50").Equal(got.TotalAmount))

	assert.Equal(t, []string{types.OrderEventCreated}, f.events.Types())
}

func TestCreateOrder_TotalIsSumOfLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// the repeated medicine is merged into one line of 3
	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.other.ID, 2), line(f.med.ID, 1), line(f.med.ID, 2)))
	require.NoError(t, err)
	require.Len(t, view.OrderItems, 2)

	sum := decimal.Zero
	for _, it := range view.OrderItems {
		assert.True(t, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.SubTotal))
		sum = sum.Add(it.SubTotal)
	}
	assert.True(t, sum.Equal(view.TotalAmount))
	assert.True(t, decimal.RequireFromString("43.90").Equal(view.TotalAmount))
	assert.Equal(t, 7, testdb.Stock(t, f.db, f.med.ID))
	assert.Equal(t, 3, testdb.Stock(t, f.db, f.other.ID))
}

func TestCreateOrder_FailuresLeaveNoTrace(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	inactive := testdb.Medicine(t, f.db, f.seller.ID, f.med.CategoryID, "1.00", 10)
	require.NoError(t, f.db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name string
		req  *types.CreateOrderRequest
		want error
	}{
		{"no items", orderRequest(), errs.ErrValidation},
		{"zero quantity", orderRequest(line(f.med.ID, 0)), errs.ErrInvalidQuantity},
		{"negative quantity", orderRequest(line(f.med.ID, -1)), errs.ErrInvalidQuantity},
		{"unknown medicine", orderRequest(line(f.med.ID+1000, 1)), errs.ErrNotFound},
		{"inactive medicine", orderRequest(line(inactive.ID, 1)), errs.ErrNotFound},
		{"over stock", orderRequest(line(f.med.ID, 11)), errs.ErrInsufficientStock},
		{"merged lines over stock", orderRequest(line(f.med.ID, 6), line(f.med.ID, 5)), errs.ErrInsufficientStock},
		{"second line fails", orderRequest(line(f.med.ID, 2), line(f.other.ID, 6)), errs.ErrInsufficientStock},
		{"missing shipping", func() *types.CreateOrderRequest {
			r := orderRequest(line(f.med.ID, 1))
			r.ShippingCity = " "
			return r
		}(), errs.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.order.CreateOrder(ctx, f.customer.ID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 10, testdb.Stock(t, f.db, f.med.ID))
	assert.Equal(t, 5, testdb.Stock(t, f.db, f.other.ID))
	var orders, items, moves int64
	f.db.Model(&models.Order{}).Count(&orders)
	f.db.Model(&models.OrderItem{}).Count(&items)
	f.db.Model(&models.StockMovement{}).Count(&moves)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, moves)
	assert.Empty(t, f.events.Types())
}

func TestCancelCustomerOrder_RestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 3), line(f.other.ID, 2)))
	require.NoError(t, err)
	assert.Equal(t, 7, testdb.Stock(t, f.db, f.med.ID))
	assert.Equal(t, 3, testdb.Stock(t, f.db, f.other.ID))

	cancelled, err := f.order.CancelCustomerOrder(ctx, f.customer.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	for _, it := range cancelled.OrderItems {
		assert.Equal(t, models.ItemCancelled, it.Status)
	}
	assert.Equal(t, 10, testdb.Stock(t, f.db, f.med.ID))
	assert.Equal(t, 5, testdb.Stock(t, f.db, f.other.ID))

	moves, err := f.stock.MovementsRepo.ListByOrder(ctx, nil, view.ID)
	require.NoError(t, err)
	require.Len(t, moves, 4)
	net := 0
	for _, m := range moves {
		net += m.Delta
	}
	assert.Zero(t, net)

	// a second cancel is rejected and restores nothing
	_, err = f.order.CancelCustomerOrder(ctx, f.customer.ID, view.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, 10, testdb.Stock(t, f.db, f.med.ID))

	assert.Equal(t, []string{types.OrderEventCreated, types.OrderEventCancelled}, f.events.Types())
}

func TestCancelCustomerOrder_Rejections(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 2)))
	require.NoError(t, err)

	_, err = f.order.CancelCustomerOrder(ctx, f.customer.ID, view.ID+100)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	stranger := testdb.User(t, f.db, models.RoleCustomer)
	_, err = f.order.CancelCustomerOrder(ctx, stranger.ID, view.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.order.ChangeOrderStatus(ctx, view.ID, models.OrderProcessing)
	require.NoError(t, err)
	_, err = f.order.CancelCustomerOrder(ctx, f.customer.ID, view.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	assert.Equal(t, 8, testdb.Stock(t, f.db, f.med.ID))
}

func TestCancelCustomerOrder_ItemPastPlaced(t *testing.T) {
	for _, reached := range []models.OrderItemStatus{models.ItemProcessing, models.ItemShipped, models.ItemDelivered} {
		t.Run(string(reached), func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()

			view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 3), line(f.other.ID, 1)))
			require.NoError(t, err)
			var itemID int64
			for _, it := range view.OrderItems {
				if it.MedicineID == f.med.ID {
					itemID = it.ID
				}
			}

			for _, to := range []models.OrderItemStatus{models.ItemProcessing, models.ItemShipped, models.ItemDelivered} {
				_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), itemID, to)
				require.NoError(t, err)
				if to == reached {
					break
				}
			}

			_, err = f.order.CancelCustomerOrder(ctx, f.customer.ID, view.ID)
			assert.ErrorIs(t, err, errs.ErrInvalidTransition)

			// nothing moved: order, both items and stock stay as they were
			got, err := f.order.GetOrderByID(ctx, f.viewer(f.customer), view.ID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderPlaced, got.Status)
			for _, it := range got.OrderItems {
				if it.ID == itemID {
					assert.Equal(t, reached, it.Status)
				} else {
					assert.Equal(t, models.ItemPlaced, it.Status)
				}
			}
			assert.Equal(t, 7, testdb.Stock(t, f.db, f.med.ID))
			assert.Equal(t, 4, testdb.Stock(t, f.db, f.other.ID))
			assert.NotContains(t, f.events.Types(), types.OrderEventCancelled)
		})
	}
}

func TestCreateOrder_LastUnitSoldOnce(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	last := testdb.Medicine(t, f.db, f.seller.ID, f.med.CategoryID, "9.99", 1)

	const buyers = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(last.ID, 1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errs.KindOf(err) == errs.KindInsufficientStock:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, buyers-1, rejected)
	assert.Zero(t, testdb.Stock(t, f.db, last.ID))
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	e := newEnv(t, rds)
	ctx := context.Background()
	customer := testdb.User(t, e.db, models.RoleCustomer)
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "5.00", 10)

	// a failed attempt releases the key
	failed := orderRequest(line(med.ID, 50))
	failed.IdempotencyKey = "retry-1"
	_, err := e.order.CreateOrder(ctx, customer.ID, failed)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)

	req := orderRequest(line(med.ID, 2))
	req.IdempotencyKey = "retry-1"
	view, err := e.order.CreateOrder(ctx, customer.ID, req)
	require.NoError(t, err)

	_, err = e.order.CreateOrder(ctx, customer.ID, req)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), strconv.FormatInt(view.ID, 10))
	assert.Equal(t, 8, testdb.Stock(t, e.db, med.ID))

	id, found := e.order.Idempotency.OrderID(ctx, customer.ID, "retry-1")
	assert.True(t, found)
	assert.Equal(t, view.ID, id)
}

func TestChangeOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 1)))
	require.NoError(t, err)

	_, err = f.order.ChangeOrderStatus(ctx, view.ID, models.OrderShipped)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.order.ChangeOrderStatus(ctx, view.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.order.ChangeOrderStatus(ctx, view.ID, models.OrderPlaced)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.order.ChangeOrderStatus(ctx, view.ID+100, models.OrderProcessing)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.order.ChangeOrderStatus(ctx, view.ID+100, models.OrderCancelled)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	for _, to := range []models.OrderStatus{models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
		change, err := f.order.ChangeOrderStatus(ctx, view.ID, to)
		require.NoError(t, err)
		assert.Equal(t, string(to), change.Status)
	}
	// stock is untouched by status progress
	assert.Equal(t, 9, testdb.Stock(t, f.db, f.med.ID))
}

func TestChangeOrderItemStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 1), line(f.other.ID, 1)))
	require.NoError(t, err)

	var mine, theirs int64
	for _, it := range view.OrderItems {
		if it.MedicineID == f.med.ID {
			mine = it.ID
		} else {
			theirs = it.ID
		}
	}

	_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), theirs, models.ItemProcessing)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.customer), mine, models.ItemProcessing)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), mine, models.ItemCancelled)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), mine, models.ItemShipped)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), mine+1000, models.ItemProcessing)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	change, err := f.order.ChangeOrderItemStatus(ctx, f.viewer(f.seller), mine, models.ItemProcessing)
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemProcessing), change.Status)

	change, err = f.order.ChangeOrderItemStatus(ctx, f.viewer(f.admin), theirs, models.ItemProcessing)
	require.NoError(t, err)
	assert.Equal(t, theirs, change.ID)

	// item progress does not move the order
	got, err := f.order.GetOrderByID(ctx, f.viewer(f.admin), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, got.Status)
}

func TestOrderReads_ProjectionPerRole(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	view, err := f.order.CreateOrder(ctx, f.customer.ID, orderRequest(line(f.med.ID, 1), line(f.other.ID, 1)))
	require.NoError(t, err)

	t.Run("seller sees only own lines", func(t *testing.T) {
		got, err := f.order.GetOrderByID(ctx, f.viewer(f.seller), view.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CustomerID)
		assert.Equal(t, f.customer.ID, *got.CustomerID)
		require.Len(t, got.OrderItems, 1)
		require.NotNil(t, got.OrderItems[0].SellerID)
		assert.Equal(t, f.seller.ID, *got.OrderItems[0].SellerID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		got, err := f.order.GetOrderByID(ctx, f.viewer(f.admin), view.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.CustomerID)
		assert.Len(t, got.OrderItems, 2)
	})

	t.Run("seller without lines is forbidden", func(t *testing.T) {
		outsider := testdb.User(t, f.db, models.RoleSeller)
		_, err := f.order.GetOrderByID(ctx, f.viewer(outsider), view.ID)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		stranger := testdb.User(t, f.db, models.RoleCustomer)
		_, err := f.order.GetOrderByID(ctx, f.viewer(stranger), view.ID)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("lists", func(t *testing.T) {
		mine, err := f.order.GetCustomerOrders(ctx, f.customer.ID, &types.PageQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), mine.Total)

		all, err := f.order.GetOrders(ctx, f.viewer(f.seller2), &types.OrderListQuery{})
		require.NoError(t, err)
		require.Len(t, all.Data, 1)
		assert.Len(t, all.Data[0].OrderItems, 1)

		none, err := f.order.GetOrders(ctx, f.viewer(f.admin), &types.OrderListQuery{Status: []models.OrderStatus{models.OrderShipped}})
		require.NoError(t, err)
		assert.Zero(t, none.Total)

		_, err = f.order.GetOrders(ctx, f.viewer(f.customer), &types.OrderListQuery{})
		assert.ErrorIs(t, err, errs.ErrForbidden)
		_, err = f.order.GetOrders(ctx, f.viewer(f.admin), &types.OrderListQuery{Status: []models.OrderStatus{"LOST"}})
		assert.ErrorIs(t, err, errs.ErrValidation)

		items, err := f.order.GetSellerOrders(ctx, f.seller.ID, &types.SellerOrderQuery{Status: models.ItemPlaced})
		require.NoError(t, err)
		require.Len(t, items.Data, 1)
		assert.Equal(t, view.OrderNumber, items.Data[0].Order.OrderNumber)
		assert.Equal(t, f.med.ID, items.Data[0].Medicine.ID)
	})
}

func ptr[T any](v T) *T {
	return &v
}
