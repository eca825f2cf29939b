package database

import (
	"fmt"
	"time"

	"scale-monitor-backend/internal/config"
	"scale-monitor-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and sizes the pool.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("database connected",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Int("max_idle_conns", cfg.DBMaxIdleConns),
	)
	return db, nil
}

// gormLogger sends gorm's slow-query and error lines to the app logger.
func gormLogger(log *zap.Logger) logger.Interface {
	std, err := zap.NewStdLogAt(log.Named("gorm"), zap.WarnLevel)
	if err != nil {
		return logger.Default.LogMode(logger.Warn)
	}
	return logger.New(std, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.BranchAccess{},
		&models.Scale{},
		&models.WeightReading{},
		&models.BranchAlertConfig{},
		&models.ScaleAlertConfig{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database migration completed")
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
