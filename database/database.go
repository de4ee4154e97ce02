// database.go - Handles database connection and setup

package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hotel-bookings-backend/auth"
	"hotel-bookings-backend/config"
	"hotel-bookings-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB // Shared connection pool, set by Connect

// Connect opens the configured database, runs migrations and seeds the admin account.
func Connect(cfg *config.Config) error {
	db, err := Open(cfg.DBDriver, dsnFor(cfg))
	if err != nil {
		return err
	}
	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}
	return createDefaultAdmin(DB, cfg)
}

// Open returns a gorm handle for driver ("sqlite" or "postgres") without migrating.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(withForeignKeys(dsn))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "[DB] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
		&models.EmailTask{},
	)
}

// withForeignKeys turns on SQLite foreign key enforcement so deletes cascade.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func dsnFor(cfg *config.Config) string {
	if cfg.DBDriver == "postgres" {
		return cfg.DatabaseURL
	}
	return cfg.DBPath
}

// createDefaultAdmin creates the configured admin account if it does not exist yet,
// so the admin panel has someone to log in as on a fresh database.
func createDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	if !cfg.CreateAdmin() {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if err := db.Create(&models.User{Email: cfg.AdminEmail, HashedPassword: hash}).Error; err != nil {
		return err
	}
	log.Printf("[DB] seeded admin account %s", cfg.AdminEmail)
	return nil
}
