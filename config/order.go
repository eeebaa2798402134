package config

import "time"

type OrderConfig struct {
	// LowStockThreshold medicines with 0 < stock < threshold are reported as low stock.
	LowStockThreshold int `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	// StatsTimeoutSeconds upper bound for a statistics aggregation.
	StatsTimeoutSeconds int `json:"stats_timeout_seconds" yaml:"stats_timeout_seconds"`
	// StatsCacheSeconds 0 disables the stats cache.
	StatsCacheSeconds int `json:"stats_cache_seconds" yaml:"stats_cache_seconds"`
	// IdempotencyTTLSeconds how long an Idempotency-Key blocks a repeated order.
	IdempotencyTTLSeconds int `json:"idempotency_ttl_seconds" yaml:"idempotency_ttl_seconds"`
}

func (o *OrderConfig) setDefaults() {
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = 50
	}
	if o.StatsTimeoutSeconds <= 0 {
		o.StatsTimeoutSeconds = 15
	}
	if o.IdempotencyTTLSeconds <= 0 {
		o.IdempotencyTTLSeconds = 600
	}
}

func (o *OrderConfig) StatsTimeout() time.Duration {
	return time.Duration(o.StatsTimeoutSeconds) * time.Second
}

func (o *OrderConfig) StatsCacheTTL() time.Duration {
	return time.Duration(o.StatsCacheSeconds) * time.Second
}

func (o *OrderConfig) IdempotencyTTL() time.Duration {
	return time.Duration(o.IdempotencyTTLSeconds) * time.Second
}

func ProvideOrderConfig(cfg *Config) *OrderConfig {
	return cfg.Order
}
