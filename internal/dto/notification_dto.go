package dto

import (
	"time"

	"smart-fridge-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Priority  int                    `json:"priority"`
	Read      bool                   `json:"read"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`
}

type StatusOnlyResponse struct {
	Status string `json:"status"`
}

func NewNotificationResponses(notifications []*entity.Notification) []*NotificationResponse {
	res := make([]*NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		res = append(res, &NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Priority:  n.Priority,
			Read:      n.Read,
			Metadata:  n.Metadata,
			CreatedAt: n.CreatedAt,
		})
	}
	return res
}
