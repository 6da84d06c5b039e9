package specification

import (
	"smart-fridge-be/internal/entity"

	"gorm.io/gorm"
)

type ByItemName struct {
	Name string
}

func (s ByItemName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name_key = ?", entity.ItemKey(s.Name))
}

// InventoryOrder is the listing order: oldest first, id as tie-break.
type InventoryOrder struct{}

func (InventoryOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("date_added ASC").Order("id ASC")
}
