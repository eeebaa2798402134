package database

import (
	"time"

	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接，返回的 cleanup 在进程退出时关闭连接池
func NewDB(conf *config.Config) (*gorm.DB, func(), error) {
	gormConf := &gorm.Config{}
	if !conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), gormConf)
	if err != nil {
		log.L.Error("failed to connect database", zap.Error(err))
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if conf.MySQL.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpenConns)
	}
	if conf.MySQL.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.L.Info("connect database success")
	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.L.Error("close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// Tables every table owned by the api server, in dependency order.
func Tables() []any {
	return []any{
		&models.Users{},
		&models.Category{},
		&models.Medicine{},
		&models.StockMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Tables()...)
}
