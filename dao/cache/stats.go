package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsStorage 统计结果短时缓存
type StatsStorage struct {
	redis *redis.Client
}

func NewStatsStorage(rds *redis.Client) *StatsStorage {
	return &StatsStorage{rds}
}

// Get reports whether a cached value was decoded into dst.
func (s *StatsStorage) Get(ctx context.Context, scope string, id int64, dst any) bool {
	if s.redis == nil {
		return false
	}
	val, err := s.redis.Get(ctx, s.name(scope, id)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dst) == nil
}

func (s *StatsStorage) Set(ctx context.Context, scope string, id int64, v any, ttl time.Duration) error {
	if s.redis == nil || ttl <= 0 {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.name(scope, id), body, ttl).Err()
}

func (s *StatsStorage) Del(ctx context.Context, scope string, id int64) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, s.name(scope, id))
}

// pharmetix:stats:scope:id
func (s *StatsStorage) name(scope string, id int64) string {
	return fmt.Sprintf("pharmetix:stats:%s:%d", scope, id)
}
