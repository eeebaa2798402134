package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalAdmins      int64 `json:"totalAdmins"`
	TotalSellers     int64 `json:"totalSellers"`
	TotalCustomers   int64 `json:"totalCustomers"`
	TotalActiveUsers int64 `json:"totalActiveUsers"`
	TotalBannedUsers int64 `json:"totalBannedUsers"`
}

type CategoryCount struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MedicineCount int64  `json:"medicineCount"`
}

type CategoryStats struct {
	TotalCategories         int64            `json:"totalCategories"`
	TotalActiveCategories   int64            `json:"totalActiveCategories"`
	TotalInactiveCategories int64            `json:"totalInactiveCategories"`
	TotalDeletedCategories  int64            `json:"totalDeletedCategories"`
	TotalFeaturedCategories int64            `json:"totalFeaturedCategories"`
	TopCategories           []*CategoryCount `json:"topCategories"`
}

type MedicineSummary struct {
	ID          int64               `json:"id"`
	BrandName   string              `json:"brandName"`
	GenericName string              `json:"genericName"`
	Price       decimal.Decimal     `json:"price"`
	PiecePrice  decimal.NullDecimal `json:"piecePrice"`
	Count       int64               `json:"count,omitempty"`
}

type MedicineStats struct {
	TotalMedicines         int64              `json:"totalMedicines"`
	TotalActiveMedicines   int64              `json:"totalActiveMedicines"`
	TotalInactiveMedicines int64              `json:"totalInactiveMedicines"`
	TotalDeletedMedicines  int64              `json:"totalDeletedMedicines"`
	OutOfStockMedicines    []*MedicineSummary `json:"outOfStockMedicines"`
	LowStockMedicines      []*MedicineSummary `json:"lowStockMedicines"`
	TopSellingMedicines    []*MedicineSummary `json:"topSellingMedicines"`
	TopRatedMedicines      []*MedicineSummary `json:"topRatedMedicines"`
}

type OrderStats struct {
	TotalOrders           int64 `json:"totalOrders"`
	TotalPlacedOrders     int64 `json:"totalPlacedOrders"`
	TotalCancelledOrders  int64 `json:"totalCancelledOrders"`
	TotalProcessingOrders int64 `json:"totalProcessingOrders"`
	TotalShippedOrders    int64 `json:"totalShippedOrders"`
	TotalDeliveredOrders  int64 `json:"totalDeliveredOrders"`
}

type RevenueStats struct {
	TotalRevenue             decimal.Decimal `json:"totalRevenue"`
	TotalRevenueForToday     decimal.Decimal `json:"totalRevenueForToday"`
	TotalRevenueForThisWeek  decimal.Decimal `json:"totalRevenueForThisWeek"`
	TotalRevenueForThisMonth decimal.Decimal `json:"totalRevenueForThisMonth"`
	TotalRevenueForThisYear  decimal.Decimal `json:"totalRevenueForThisYear"`
}

type DailyOrders struct {
	Date        string          `json:"date"`
	OrdersCount int64           `json:"ordersCount"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type AdminStats struct {
	UserStats     UserStats      `json:"userStats"`
	CategoryStats CategoryStats  `json:"categoryStats"`
	MedicineStats MedicineStats  `json:"medicineStats"`
	OrderStats    OrderStats     `json:"orderStats"`
	RevenueStats  RevenueStats   `json:"revenueStats"`
	OrdersPerDay  []*DailyOrders `json:"ordersPerDay"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

type SellerOrderStats struct {
	TotalOrderItems      int64 `json:"totalOrderItems"`
	TotalPlacedItems     int64 `json:"totalPlacedItems"`
	TotalProcessingItems int64 `json:"totalProcessingItems"`
	TotalShippedItems    int64 `json:"totalShippedItems"`
	TotalDeliveredItems  int64 `json:"totalDeliveredItems"`
	TotalCancelledItems  int64 `json:"totalCancelledItems"`
}

type SellerStats struct {
	MedicineStats    MedicineStats    `json:"medicineStats"`
	OrderStats       SellerOrderStats `json:"orderStats"`
	TotalRevenue     decimal.Decimal  `json:"totalRevenue"`
	OrderItemsPerDay []*DailyOrders   `json:"orderItemsPerDay"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}
