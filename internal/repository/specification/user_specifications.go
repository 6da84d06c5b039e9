package specification

import (
	"smart-fridge-be/internal/entity"

	"gorm.io/gorm"
)

// ByUsername matches case-insensitively on the trimmed username.
type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username_key = ?", entity.UsernameKey(s.Username))
}

type UserOwnedBy struct {
	UserID uint
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
