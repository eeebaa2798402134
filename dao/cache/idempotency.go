package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPending = "pending"

// IdempotencyStorage Idempotency-Key 占位，防止客户端重试重复下单
// 未配置 redis 时所有 key 都视为可用
type IdempotencyStorage struct {
	redis *redis.Client
}

func NewIdempotencyStorage(rds *redis.Client) *IdempotencyStorage {
	return &IdempotencyStorage{rds}
}

// Acquire 占用 key，返回 false 表示该 key 已被占用或已完成
// @params customerID 下单客户
// @params key        客户端传入的 Idempotency-Key
func (s *IdempotencyStorage) Acquire(ctx context.Context, customerID int64, key string, ttl time.Duration) (bool, error) {
	if s.redis == nil {
		return true, nil
	}
	return s.redis.SetNX(ctx, s.name(customerID, key), idempotencyPending, ttl).Result()
}

// Complete 记录 key 对应的订单号，保留到 ttl 结束
func (s *IdempotencyStorage) Complete(ctx context.Context, customerID int64, key string, orderID int64, ttl time.Duration) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, s.name(customerID, key), orderID, ttl).Err()
}

// Release 下单失败时释放 key，允许客户端重试
func (s *IdempotencyStorage) Release(ctx context.Context, customerID int64, key string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, s.name(customerID, key)).Err()
}

// OrderID 0 while the first request is still running.
func (s *IdempotencyStorage) OrderID(ctx context.Context, customerID int64, key string) (int64, bool) {
	if s.redis == nil {
		return 0, false
	}
	val, err := s.redis.Get(ctx, s.name(customerID, key)).Result()
	if errors.Is(err, redis.Nil) || err != nil {
		return 0, false
	}
	if val == idempotencyPending {
		return 0, true
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// pharmetix:order:idem:customerID:key
func (s *IdempotencyStorage) name(customerID int64, key string) string {
	return fmt.Sprintf("pharmetix:order:idem:%d:%s", customerID, key)
}
