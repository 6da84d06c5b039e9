package main

import (
	"context"
	"flag"
	"log"
	"time"

	"smart-fridge-be/internal/config"
	"smart-fridge-be/internal/model"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/unitofwork"
	"smart-fridge-be/internal/service"
	"smart-fridge-be/pkg/database"
)

type seedItem struct {
	Name      string
	Quantity  int
	ExpiresIn int // days, 0 means no expiry date
}

var demoInventory = []seedItem{
	{Name: "Milk", Quantity: 2, ExpiresIn: 5},
	{Name: "Eggs", Quantity: 12, ExpiresIn: 14},
	{Name: "Cheddar Cheese", Quantity: 1},
	{Name: "Spinach", Quantity: 1, ExpiresIn: 2},
	{Name: "Chicken Breast", Quantity: 3, ExpiresIn: 1},
	{Name: "Apple", Quantity: 6},
	{Name: "Yogurt", Quantity: 4, ExpiresIn: 10},
}

func main() {
	username := flag.String("user", "demo", "username to seed the inventory for")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.Connection,
	})
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	inventory := service.NewInventoryService(unitofwork.NewRepositoryFactory(db), logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction()))

	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, it := range demoInventory {
		var expiry *time.Time
		if it.ExpiresIn > 0 {
			e := today.AddDate(0, 0, it.ExpiresIn)
			expiry = &e
		}
		item, err := inventory.Upsert(ctx, *username, it.Name, it.Quantity, expiry)
		if err != nil {
			log.Printf("Warn: failed to seed %s: %v", it.Name, err)
			continue
		}
		log.Printf("Seeded %s (x%d)", item.Name, item.Quantity)
	}

	log.Printf("Seeding completed for %s.", *username)
}
