package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/models"
)

// Connect establishes a connection to the database
func Connect(cfg *config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	if log == nil {
		log = logrus.New()
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	var logLevel logger.LogLevel
	if cfg.Debug {
		logLevel = logger.Info
	} else {
		logLevel = logger.Error
	}

	gormLogger := logger.New(
		&logAdapter{log: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	registerDurationHooks(db)
	registerMetricsHooks(db)

	return db, nil
}

// AutoMigrate runs database migrations for the registry, the ledger and the
// reference tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.Warehouse{},
		&models.WarehouseZone{},
		&models.WarehouseShelf{},
		&models.SerialUnit{},
		&models.SerialHistory{},
	)
}

// logAdapter adapts the GORM logger to the application logger
type logAdapter struct {
	log *logrus.Logger
}

func (l *logAdapter) Printf(format string, args ...interface{}) {
	l.log.Printf(format, args...)
}
