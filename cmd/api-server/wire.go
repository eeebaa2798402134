//go:build wireinject
// +build wireinject

package main

import (
	"Pharmetix/config"
	"Pharmetix/dao"
	"Pharmetix/dao/cache"
	"Pharmetix/handler"
	"Pharmetix/pkg/client"
	"Pharmetix/pkg/database"
	"Pharmetix/pkg/oss"
	"Pharmetix/pkg/rocketmq"
	"Pharmetix/pkg/server"
	"Pharmetix/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideOssConfig,
		config.ProvideRocketMQConfig,
		config.ProvideOrderConfig,
		rocketmq.InitProducer,
		oss.NewStorage,
		server.NewGinEngine,

		dao.ProviderSet,
		cache.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.Medicine), "*"),
		wire.Struct(new(handler.Category), "*"),
		wire.Struct(new(handler.Review), "*"),
		wire.Struct(new(handler.User), "*"),
		wire.Struct(new(handler.Stats), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil, nil, nil
}
