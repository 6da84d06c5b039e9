package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/events"
	"smart-fridge-be/pkg/sensor"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ExpiryWarningWindow is how far ahead an upload looks for expiring items.
const ExpiryWarningWindow = 3 * 24 * time.Hour

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber    message.Subscriber
	topicName     string
	notifications INotificationService
	inventory     IInventoryService
	analysis      IFridgeAnalysisService
	holder        *sensor.Holder
	logger        logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	notifications INotificationService,
	inventory IInventoryService,
	analysis IFridgeAnalysisService,
	holder *sensor.Holder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:    subscriber,
		topicName:     topicName,
		notifications: notifications,
		inventory:     inventory,
		analysis:      analysis,
		holder:        holder,
		logger:        log,
	}
}

// Consume subscribes and handles messages on a background goroutine until ctx ends.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. Everything it does is advisory, so a failure is logged
// instead of redelivered.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	eventType := msg.Metadata.Get(eventTypeMetadataKey)
	if eventType != events.UploadProcessed {
		return
	}

	var payload dto.UploadProcessedMessage
	if err := events.Decode(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to decode upload event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		return
	}

	cs.logger.Info("ConsumerService", "Processing upload event", map[string]interface{}{
		"username":  payload.Username,
		"new_items": len(payload.NewItems),
	})

	for _, n := range cs.sensorNotifications(&payload) {
		cs.create(ctx, n)
	}
	if len(payload.NewItems) > 0 {
		cs.create(ctx, &entity.Notification{
			Type:     entity.NotificationInfo,
			Title:    "New items added",
			Message:  fmt.Sprintf("Added to %s's fridge: %s", payload.Username, strings.Join(payload.NewItems, ", ")),
			Priority: 4,
			Metadata: map[string]interface{}{"username": payload.Username, "items": payload.NewItems},
		})
	}

	inventoryNames := cs.expiryCheck(ctx, payload.Username)

	items := payload.DetectedItems
	if len(items) == 0 {
		items = inventoryNames
	}
	analysis := cs.analysis.Analyze(ctx, &payload.Sensor, items)
	cs.holder.RecordAnalysis(analysis)
}

func (cs *consumerService) sensorNotifications(p *dto.UploadProcessedMessage) []*entity.Notification {
	var result []*entity.Notification
	reading := p.Sensor.Describe()

	switch p.TemperatureStatus {
	case sensor.StatusDanger:
		result = append(result, &entity.Notification{
			Type:     entity.NotificationAlert,
			Title:    "Temperature danger",
			Message:  fmt.Sprintf("Fridge temperature is outside the safe range. %s", reading),
			Priority: 1,
		})
	case sensor.StatusWarning:
		result = append(result, &entity.Notification{
			Type:     entity.NotificationAlert,
			Title:    "Temperature warning",
			Message:  fmt.Sprintf("Fridge temperature is drifting from the ideal range. %s", reading),
			Priority: 2,
		})
	}
	if p.HumidityStatus == sensor.StatusDanger {
		result = append(result, &entity.Notification{
			Type:     entity.NotificationAlert,
			Title:    "Humidity danger",
			Message:  fmt.Sprintf("Fridge humidity is outside the safe range. %s", reading),
			Priority: 2,
		})
	}
	if p.GasStatus == sensor.StatusDanger {
		result = append(result, &entity.Notification{
			Type:     entity.NotificationAlert,
			Title:    "Gas level danger",
			Message:  fmt.Sprintf("High gas level detected, food may be spoiling. %s", reading),
			Priority: 2,
		})
	}

	for _, n := range result {
		n.Metadata = map[string]interface{}{"username": p.Username}
	}
	return result
}

// expiryCheck raises one expiry notification for the user and returns the names of
// everything in stock.
func (cs *consumerService) expiryCheck(ctx context.Context, username string) []string {
	items, err := cs.inventory.ListItems(ctx, username)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			names = append(names, item.Name)
		}
	}

	expiring, err := cs.inventory.ExpiringSoon(ctx, username, ExpiryWarningWindow)
	if err != nil {
		cs.logger.Warn("ConsumerService", "Expiry check failed", map[string]interface{}{
			"error":    err.Error(),
			"username": username,
		})
		return names
	}
	if len(expiring) == 0 {
		return names
	}

	parts := make([]string, 0, len(expiring))
	for _, e := range expiring {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.Item.Name, e.EffectiveExpiry.Format(dto.DateLayout)))
	}
	cs.create(ctx, &entity.Notification{
		Type:     entity.NotificationExpiry,
		Title:    "Items expiring soon",
		Message:  "Use these soon: " + strings.Join(parts, ", "),
		Priority: 2,
		Metadata: map[string]interface{}{"username": username, "count": len(expiring)},
	})
	return names
}

func (cs *consumerService) create(ctx context.Context, n *entity.Notification) {
	if err := cs.notifications.Create(ctx, n); err != nil {
		cs.logger.Error("ConsumerService", "Failed to create notification", map[string]interface{}{
			"error": err.Error(),
			"title": n.Title,
		})
	}
}
