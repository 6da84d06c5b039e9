package main

import (
	"log"

	"smart-fridge-be/internal/config"
	"smart-fridge-be/internal/model"
	"smart-fridge-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.Connection,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Starting GORM migration (%s)...", cfg.Database.Driver)

	// 3. AutoMigrate users, items, notifications
	log.Println("Step 1: Running AutoMigrate...")
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: reporting view
	log.Println("Step 2: Creating views...")

	viewSQL := `CREATE VIEW IF NOT EXISTS user_inventory_summary AS
		SELECT u.id AS user_id, u.username, COUNT(i.id) AS item_count, COALESCE(SUM(i.quantity), 0) AS total_quantity
		FROM users u LEFT JOIN items i ON i.user_id = u.id
		GROUP BY u.id, u.username;`
	if cfg.Database.Driver == database.DriverPostgres {
		viewSQL = `CREATE OR REPLACE VIEW user_inventory_summary AS
		SELECT u.id AS user_id, u.username, COUNT(i.id) AS item_count, COALESCE(SUM(i.quantity), 0) AS total_quantity
		FROM users u LEFT JOIN items i ON i.user_id = u.id
		GROUP BY u.id, u.username;`
	}
	if err := db.Exec(viewSQL).Error; err != nil {
		log.Printf("Warn: Failed to create view: %v", err)
	}

	log.Println("Success: database migration completed.")
}
