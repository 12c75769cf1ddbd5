package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"recognicam-go/internal/config"
	"recognicam-go/internal/logger"
	"recognicam-go/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) error {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logger.NewGormZapLogger(log)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")
	return runMigrations(log)
}

func runMigrations(log *zap.Logger) error {
	if err := DB.AutoMigrate(&models.ScreeningResult{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	// AutoMigrate does not create composite indexes; the latest-by-task
	// query depends on this one.
	resultsIndex := `CREATE INDEX IF NOT EXISTS idx_results_task_latest ON screening_results (task_type, created_at DESC);`
	if err := DB.Exec(resultsIndex).Error; err != nil {
		return fmt.Errorf("failed to create custom index on results table: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
