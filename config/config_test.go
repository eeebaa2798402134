package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse([]byte("mysql:\n  host: db\n  port: 3306\n  username: u\n  password: p\n  database: pharmetix\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, conf.Server.Http)
	assert.Equal(t, 50, conf.Order.LowStockThreshold)
	assert.Equal(t, 15*time.Second, conf.Order.StatsTimeout())
	assert.Equal(t, time.Duration(0), conf.Order.StatsCacheTTL())
	assert.Equal(t, "u:p@tcp(db:3306)/pharmetix?charset=utf8mb4&parseTime=True&loc=Local", conf.MySQL.Dsn())
}

func TestLoad_DevFile(t *testing.T) {
	conf, err := Load("../configs/config.dev.yaml")
	require.NoError(t, err)

	assert.True(t, conf.Debug())
	assert.Equal(t, "pharmetix_order_events", conf.RocketMQ.OrderTopic)
	assert.Equal(t, 60*time.Second, conf.Order.StatsCacheTTL())
	assert.Equal(t, []string{"127.0.0.1:9876"}, conf.RocketMQ.NameServer)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("server: [oops"))
	assert.Error(t, err)
}
