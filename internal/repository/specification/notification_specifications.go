package specification

import "gorm.io/gorm"

type Unread struct{}

func (Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}

// Newest orders notifications most recent first.
type Newest struct{}

func (Newest) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
