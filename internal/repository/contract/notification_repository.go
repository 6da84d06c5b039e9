package contract

import (
	"context"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (found bool, err error)
	MarkAllRead(ctx context.Context) error
	// KeepNewest deletes everything but the newest keep notifications.
	KeepNewest(ctx context.Context, keep int) error
}
