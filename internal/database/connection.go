// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockhub/stockhub-backend/internal/config"
	"github.com/stockhub/stockhub-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.InventoryItem{},
		&models.StockChangeLog{},
		&models.AccountTotalsSnapshot{},
		&models.AccountTotals{},
		&models.DisposalRecord{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_admin ON users(admin_id)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_items_account ON inventory_items(account_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_items_account_category ON inventory_items(account_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_items_created_at ON inventory_items(created_at DESC)",

		// Ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_change_logs_account ON stock_change_logs(account_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_change_logs_item ON stock_change_logs(item_id)",
		"CREATE INDEX IF NOT EXISTS idx_account_totals_snapshots_account ON account_totals_snapshots(account_id, created_at DESC)",

		// Disposal indexes
		"CREATE INDEX IF NOT EXISTS idx_disposal_records_account ON disposal_records(account_id, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var managerCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleManager).Count(&managerCount)

	if managerCount == 0 {
		manager := &models.User{
			Username: "admin",
			Email:    "admin@stockhub.local",
			Role:     models.UserRoleManager,
			Status:   models.UserStatusActive,
		}

		if err := manager.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set manager password: %w", err)
		}

		if err := db.Create(manager).Error; err != nil {
			return fmt.Errorf("failed to create manager user: %w", err)
		}

		log.Println("Default manager user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
