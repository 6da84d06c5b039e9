package mapper

import (
	"encoding/json"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/model"

	"gorm.io/datatypes"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	var metadata map[string]interface{}
	if len(n.Metadata) > 0 {
		// Metadata is written by ToModel, so a decode failure only loses the extras.
		_ = json.Unmarshal(n.Metadata, &metadata)
	}
	return &entity.Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Read:      n.IsRead,
		Metadata:  metadata,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NotificationMapper) ToEntities(notifications []*model.Notification) []*entity.Notification {
	result := make([]*entity.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, m.ToEntity(n))
	}
	return result
}

func (m *NotificationMapper) ToModel(n *entity.Notification) (*model.Notification, error) {
	if n == nil {
		return nil, nil
	}
	var metadata datatypes.JSON
	if n.Metadata != nil {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(raw)
	}
	return &model.Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Metadata:  metadata,
		IsRead:    n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}, nil
}
