package service

import (
	"context"
	"strings"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/specification"
	"smart-fridge-be/internal/repository/unitofwork"
	"smart-fridge-be/pkg/events"

	"github.com/google/uuid"
)

type INotificationService interface {
	Create(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	limit      int
	mirror     EventMirror
	logger     logger.ILogger
}

// NewNotificationService keeps at most limit notifications. Created notifications are
// also sent to mirror when it is non-nil.
func NewNotificationService(uowFactory unitofwork.RepositoryFactory, limit int, mirror EventMirror, log logger.ILogger) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		limit:      limit,
		mirror:     mirror,
		logger:     log,
	}
}

func (s *notificationService) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.Priority < 1 {
		notification.Priority = 1
	}
	if notification.Priority > 5 {
		notification.Priority = 5
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Storage("begin notification", err)
	}
	defer uow.Rollback()

	repo := uow.NotificationRepository()
	if err := repo.Create(ctx, notification); err != nil {
		return apperror.Storage("create notification", err)
	}
	if err := repo.KeepNewest(ctx, s.limit); err != nil {
		return apperror.Storage("trim notifications", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Storage("commit notification", err)
	}

	s.logger.Info("NotificationService", "Notification created", map[string]interface{}{
		"id":       notification.ID.String(),
		"type":     notification.Type,
		"priority": notification.Priority,
	})

	if s.mirror != nil {
		event := events.BaseEvent{
			Type:       events.NotificationCreated,
			OccurredAt: notification.CreatedAt,
			Data: map[string]interface{}{
				"id":       notification.ID.String(),
				"type":     notification.Type,
				"title":    notification.Title,
				"message":  notification.Message,
				"priority": notification.Priority,
			},
		}
		if err := s.mirror.Publish(ctx, event); err != nil {
			s.logger.Warn("NotificationService", "Failed to mirror notification", map[string]interface{}{
				"error": err.Error(),
				"id":    notification.ID.String(),
			})
		}
	}
	return nil
}

func (s *notificationService) List(ctx context.Context) (*dto.NotificationListResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository()

	specs := []specification.Specification{specification.Newest{}}
	if s.limit > 0 {
		specs = append(specs, specification.Pagination{Limit: s.limit})
	}
	notifications, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Storage("list notifications", err)
	}
	unread, err := repo.Count(ctx, specification.Unread{})
	if err != nil {
		return nil, apperror.Storage("count unread notifications", err)
	}

	return &dto.NotificationListResponse{
		Notifications: dto.NewNotificationResponses(notifications),
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return apperror.NotFound("notification %s not found", id)
	}

	found, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkRead(ctx, parsed)
	if err != nil {
		return apperror.Storage("mark notification read", err)
	}
	if !found {
		return apperror.NotFound("notification %s not found", id)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	if err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllRead(ctx); err != nil {
		return apperror.Storage("mark all notifications read", err)
	}
	return nil
}
