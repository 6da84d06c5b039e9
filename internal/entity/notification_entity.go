package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationAlert  = "alert"
	NotificationInfo   = "info"
	NotificationExpiry = "expiry"
)

type Notification struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Message   string
	Priority  int // 1 is most urgent
	Read      bool
	Metadata  map[string]interface{}
	ReadAt    *time.Time
	CreatedAt time.Time
}
