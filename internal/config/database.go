package config

import (
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver for DB_DRIVER=pq
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/logger"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB opens the PostgreSQL connection described by cfg, applies the
// schema and stores the handle in DB.
func InitDB(cfg *Config) error {
	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: true,
		Logger:         logger.GormLogger(),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := Migrate(db); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":   cfg.Database.Host,
		"dbname": cfg.Database.Name,
		"driver": cfg.Database.Driver,
	}).Info("Database connected")

	DB = db
	return nil
}

// dialector picks pgx (default) or lib/pq underneath GORM's postgres dialect.
func dialector(cfg *Config) gorm.Dialector {
	if cfg.Database.Driver == "pq" {
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN()})
	}
	return postgres.Open(cfg.DSN())
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.RoutePoint{},
		&models.RouteDate{},
		&models.RouteSchedule{},
		&models.Community{},
		&models.RouteCommunity{},
		&models.Vehicle{},
		&models.VehicleLocation{},
		&models.Notification{},
		&models.Report{},
		&models.PasswordResetToken{},
	)
}
