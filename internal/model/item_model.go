package model

import "time"

type Item struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_items_user_name_key,priority:1"`
	Name       string     `gorm:"type:varchar(255);not null"`
	NameKey    string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_items_user_name_key,priority:2"`
	Quantity   int        `gorm:"not null;default:1;check:chk_items_quantity,quantity >= 0"`
	DateAdded  time.Time  `gorm:"not null;index"`
	ExpiryDate *time.Time `gorm:"type:date"`
}

func (Item) TableName() string {
	return "items"
}
