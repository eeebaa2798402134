package service

import (
	"Pharmetix/pkg/oss"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(StockService), "*"),
	wire.Bind(new(IStockService), new(*StockService)),

	wire.Struct(new(OrderStatusService), "*"),
	wire.Bind(new(IOrderStatusService), new(*OrderStatusService)),

	wire.Struct(new(MedicineService), "*"),
	wire.Bind(new(IMedicineService), new(*MedicineService)),
	wire.Bind(new(ICatalogLookup), new(*MedicineService)),
	wire.Bind(new(IObjectStorage), new(*oss.Storage)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(CategoryService), "*"),
	wire.Bind(new(ICategoryService), new(*CategoryService)),

	wire.Struct(new(ReviewService), "*"),
	wire.Bind(new(IReviewService), new(*ReviewService)),

	wire.Struct(new(UserService), "*"),
	wire.Bind(new(IUserService), new(*UserService)),

	wire.Struct(new(StatsService), "*"),
	wire.Bind(new(IStatsService), new(*StatsService)),

	NewOrderEventPublisher,
)
