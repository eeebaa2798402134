package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"Pharmetix/config"
	"Pharmetix/dao"
	"Pharmetix/dao/cache"
	"Pharmetix/internal/testdb"
	"Pharmetix/types"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*types.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *types.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryStorage in-memory object storage
type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Put(_ context.Context, objectKey string, body io.Reader, _ string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.objects[objectKey] = buf.Bytes()
	return nil
}

func (m *memoryStorage) URL(objectKey string) string {
	return "https://cdn.pharmetix.test/" + objectKey
}

type env struct {
	db       *gorm.DB
	conf     *config.Config
	stock    *StockService
	medicine *MedicineService
	order    *OrderService
	category *CategoryService
	review   *ReviewService
	user     *UserService
	stats    *StatsService
	events   *recordingPublisher
	storage  *memoryStorage
}

// newEnv wires the services the way the api server does, against a fresh sqlite db.
// rds may be nil, which disables idempotency and the stats cache.
func newEnv(t *testing.T, rds *redis.Client) *env {
	t.Helper()

	db := testdb.New(t)
	conf, err := config.Parse([]byte("app:\n  hash_salt: test-salt\n"))
	require.NoError(t, err)

	medicines := dao.NewMedicine(db)
	categories := dao.NewCategory(db)
	orders := dao.NewOrder(db)
	orderItems := dao.NewOrderItem(db)
	reviews := dao.NewReview(db)

	e := &env{
		db:      db,
		conf:    conf,
		events:  &recordingPublisher{},
		storage: &memoryStorage{objects: map[string][]byte{}},
	}
	e.stock = &StockService{DB: db, MedicineRepo: medicines, MovementsRepo: dao.NewStockMovement(db)}
	e.medicine = &MedicineService{
		DB:           db,
		MedicineRepo: medicines,
		CategoryRepo: categories,
		Stock:        e.stock,
		Storage:      e.storage,
	}
	e.order = &OrderService{
		DB:            db,
		Config:        conf,
		OrderRepo:     orders,
		OrderItemRepo: orderItems,
		ReviewRepo:    reviews,
		Catalog:       e.medicine,
		Stock:         e.stock,
		Status:        &OrderStatusService{OrderRepo: orders, OrderItemRepo: orderItems},
		Idempotency:   cache.NewIdempotencyStorage(rds),
		Events:        e.events,
	}
	e.category = &CategoryService{CategoryRepo: categories, MedicineRepo: medicines}
	e.review = &ReviewService{ReviewRepo: reviews, OrderRepo: orders}
	e.user = &UserService{UsersRepo: dao.NewUsers(db)}
	e.stats = &StatsService{Config: conf.Order, StatsRepo: dao.NewStats(db), Cache: cache.NewStatsStorage(rds)}
	return e
}

func orderRequest(items ...types.OrderItemRequest) *types.CreateOrderRequest {
	return &types.CreateOrderRequest{
		ShippingName:       "Jane Doe",
		ShippingPhone:      "+8801700000000",
		ShippingAddress:    "12 Lake Road",
		ShippingCity:       "Dhaka",
		ShippingPostalCode: "1207",
		OrderItems:         items,
	}
}

func line(medicineID int64, qty int) types.OrderItemRequest {
	return types.OrderItemRequest{MedicineID: medicineID, Quantity: qty}
}
