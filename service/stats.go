package service

import (
	"context"
	"time"

	"Pharmetix/config"
	"Pharmetix/dao"
	"Pharmetix/dao/cache"
	"Pharmetix/models"
	"Pharmetix/pkg/log"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	statsListLimit     = 10
	topCategoriesLimit = 5
	statsDays          = 30

	statsScopeAdmin  = "admin"
	statsScopeSeller = "seller"
)

type StatsService struct {
	Config    *config.OrderConfig
	StatsRepo *dao.Stats
	Cache     *cache.StatsStorage
}

var _ IStatsService = (*StatsService)(nil)

type IStatsService interface {
	AdminStats(ctx context.Context) (*types.AdminStats, error)
	SellerStats(ctx context.Context, sellerID int64) (*types.SellerStats, error)
}

func (s *StatsService) AdminStats(ctx context.Context) (*types.AdminStats, error) {
	out := &types.AdminStats{}
	if s.Cache.Get(ctx, statsScopeAdmin, 0, out) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.StatsTimeout())
	defer cancel()

	// 每个任务只写自己的字段
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return s.userStats(ctx, &out.UserStats)
	})
	p.Go(func(ctx context.Context) error {
		return s.categoryStats(ctx, &out.CategoryStats)
	})
	p.Go(func(ctx context.Context) error {
		return s.medicineStats(ctx, 0, &out.MedicineStats)
	})
	p.Go(func(ctx context.Context) error {
		return s.orderStats(ctx, &out.OrderStats)
	})
	p.Go(func(ctx context.Context) error {
		return s.revenueStats(ctx, &out.RevenueStats)
	})
	p.Go(func(ctx context.Context) error {
		days, err := s.StatsRepo.OrdersPerDay(ctx, startOfDay(time.Now()).AddDate(0, 0, -(statsDays-1)))
		out.OrdersPerDay = days
		return err
	})
	if err := p.Wait(); err != nil {
		log.L.Error("admin stats", zap.Error(err))
		return nil, err
	}

	out.GeneratedAt = time.Now()
	if err := s.Cache.Set(ctx, statsScopeAdmin, 0, out, s.Config.StatsCacheTTL()); err != nil {
		log.L.Warn("cache admin stats", zap.Error(err))
	}
	return out, nil
}

func (s *StatsService) SellerStats(ctx context.Context, sellerID int64) (*types.SellerStats, error) {
	out := &types.SellerStats{}
	if s.Cache.Get(ctx, statsScopeSeller, sellerID, out) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.StatsTimeout())
	defer cancel()

	items := dao.Predicates{dao.Eq("seller_id", sellerID)}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.medicineStats(egCtx, sellerID, &out.MedicineStats)
	})
	eg.Go(func() error {
		return s.sellerOrderStats(egCtx, items, &out.OrderStats)
	})
	eg.Go(func() error {
		var err error
		out.TotalRevenue, err = s.StatsRepo.Sum(egCtx, &models.OrderItem{}, "sub_total",
			append(items, dao.Raw("status <> ?", models.ItemCancelled)))
		return err
	})
	eg.Go(func() error {
		var err error
		out.OrderItemsPerDay, err = s.StatsRepo.SellerItemsPerDay(egCtx, sellerID,
			startOfDay(time.Now()).AddDate(0, 0, -(statsDays-1)))
		return err
	})
	if err := eg.Wait(); err != nil {
		log.L.Error("seller stats", zap.Int64("seller_id", sellerID), zap.Error(err))
		return nil, err
	}

	out.GeneratedAt = time.Now()
	if err := s.Cache.Set(ctx, statsScopeSeller, sellerID, out, s.Config.StatsCacheTTL()); err != nil {
		log.L.Warn("cache seller stats", zap.Int64("seller_id", sellerID), zap.Error(err))
	}
	return out, nil
}

// countInto runs one count per destination, stopping at the first error.
func (s *StatsService) countInto(ctx context.Context, model any, counts map[*int64]dao.Predicates) error {
	for dst, ps := range counts {
		n, err := s.StatsRepo.Count(ctx, model, ps)
		if err != nil {
			return err
		}
		*dst = n
	}
	return nil
}

func (s *StatsService) userStats(ctx context.Context, out *types.UserStats) error {
	return s.countInto(ctx, &models.Users{}, map[*int64]dao.Predicates{
		&out.TotalUsers:       nil,
		&out.TotalAdmins:      {dao.Eq("role", models.RoleAdmin)},
		&out.TotalSellers:     {dao.Eq("role", models.RoleSeller)},
		&out.TotalCustomers:   {dao.Eq("role", models.RoleCustomer)},
		&out.TotalActiveUsers: {dao.Eq("status", models.UserActive)},
		&out.TotalBannedUsers: {dao.Eq("status", models.UserBanned)},
	})
}

func (s *StatsService) categoryStats(ctx context.Context, out *types.CategoryStats) error {
	notDeleted := dao.Raw("is_deleted = ?", false)
	err := s.countInto(ctx, &models.Category{}, map[*int64]dao.Predicates{
		&out.TotalCategories:         nil,
		&out.TotalActiveCategories:   {notDeleted, dao.Raw("is_active = ?", true)},
		&out.TotalInactiveCategories: {notDeleted, dao.Raw("is_active = ?", false)},
		&out.TotalDeletedCategories:  {dao.Raw("is_deleted = ?", true)},
		&out.TotalFeaturedCategories: {notDeleted, dao.Raw("is_featured = ?", true)},
	})
	if err != nil {
		return err
	}
	out.TopCategories, err = s.StatsRepo.TopCategories(ctx, topCategoriesLimit)
	return err
}

// medicineStats sellerID 0 covers the whole catalog.
func (s *StatsService) medicineStats(ctx context.Context, sellerID int64, out *types.MedicineStats) error {
	scope := dao.Eq("seller_id", sellerID)
	notDeleted := dao.Raw("is_deleted = ?", false)
	err := s.countInto(ctx, &models.Medicine{}, map[*int64]dao.Predicates{
		&out.TotalMedicines:         {scope},
		&out.TotalActiveMedicines:   {scope, notDeleted, dao.Raw("is_active = ?", true)},
		&out.TotalInactiveMedicines: {scope, notDeleted, dao.Raw("is_active = ?", false)},
		&out.TotalDeletedMedicines:  {scope, dao.Raw("is_deleted = ?", true)},
	})
	if err != nil {
		return err
	}

	if out.OutOfStockMedicines, err = s.StatsRepo.Medicines(ctx,
		dao.Predicates{scope, notDeleted, dao.Raw("stock_quantity = 0")}, statsListLimit); err != nil {
		return err
	}
	if out.LowStockMedicines, err = s.StatsRepo.Medicines(ctx,
		dao.Predicates{scope, notDeleted, dao.Raw("stock_quantity > 0 AND stock_quantity < ?", s.Config.LowStockThreshold)},
		statsListLimit); err != nil {
		return err
	}
	if out.TopSellingMedicines, err = s.StatsRepo.TopSelling(ctx, sellerID, statsListLimit); err != nil {
		return err
	}
	out.TopRatedMedicines, err = s.StatsRepo.TopRated(ctx, sellerID, statsListLimit)
	return err
}

func (s *StatsService) orderStats(ctx context.Context, out *types.OrderStats) error {
	return s.countInto(ctx, &models.Order{}, map[*int64]dao.Predicates{
		&out.TotalOrders:           nil,
		&out.TotalPlacedOrders:     {dao.Eq("status", models.OrderPlaced)},
		&out.TotalProcessingOrders: {dao.Eq("status", models.OrderProcessing)},
		&out.TotalShippedOrders:    {dao.Eq("status", models.OrderShipped)},
		&out.TotalDeliveredOrders:  {dao.Eq("status", models.OrderDelivered)},
		&out.TotalCancelledOrders:  {dao.Eq("status", models.OrderCancelled)},
	})
}

func (s *StatsService) sellerOrderStats(ctx context.Context, items dao.Predicates, out *types.SellerOrderStats) error {
	with := func(status models.OrderItemStatus) dao.Predicates {
		return append(append(dao.Predicates{}, items...), dao.Eq("status", status))
	}
	return s.countInto(ctx, &models.OrderItem{}, map[*int64]dao.Predicates{
		&out.TotalOrderItems:      items,
		&out.TotalPlacedItems:     with(models.ItemPlaced),
		&out.TotalProcessingItems: with(models.ItemProcessing),
		&out.TotalShippedItems:    with(models.ItemShipped),
		&out.TotalDeliveredItems:  with(models.ItemDelivered),
		&out.TotalCancelledItems:  with(models.ItemCancelled),
	})
}

// revenueStats cancelled orders never count as revenue.
func (s *StatsService) revenueStats(ctx context.Context, out *types.RevenueStats) error {
	now := time.Now()
	today := startOfDay(now)
	weekday := (int(today.Weekday()) + 6) % 7
	periods := map[*decimal.Decimal]time.Time{
		&out.TotalRevenue:             {},
		&out.TotalRevenueForToday:     today,
		&out.TotalRevenueForThisWeek:  today.AddDate(0, 0, -weekday),
		&out.TotalRevenueForThisMonth: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		&out.TotalRevenueForThisYear:  time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()),
	}
	for dst, since := range periods {
		ps := dao.Predicates{
			dao.Raw("status <> ?", models.OrderCancelled),
			dao.When(!since.IsZero(), dao.Raw("created_at >= ?", since)),
		}
		sum, err := s.StatsRepo.Sum(ctx, &models.Order{}, "total_amount", ps)
		if err != nil {
			return err
		}
		*dst = sum
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
