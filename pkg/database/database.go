package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voicehub/internal/model"
	"voicehub/pkg/config"
)

var db *gorm.DB

// InitDB connects to postgres, configures the pool and migrates the schema.
func InitDB(cfg *config.Config) error {
	logLevel := cfg.DB.LogLevel
	if logLevel == 0 {
		logLevel = gormlogger.Warn
	}

	// PreferSimpleProtocol avoids "prepared statement already exists" errors
	// behind connection poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Organization{},
		&model.Membership{},
		&model.VoiceAgent{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	zap.L().Info("database connected and migrated")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
