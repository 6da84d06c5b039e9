package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Type      string         `gorm:"type:varchar(20);not null;index"`
	Title     string         `gorm:"type:varchar(200);not null"`
	Message   string         `gorm:"type:text;not null"`
	Priority  int            `gorm:"not null;default:3"`
	Metadata  datatypes.JSON `gorm:""`
	IsRead    bool           `gorm:"default:false;index"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
