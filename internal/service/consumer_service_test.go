package service

import (
	"context"
	"testing"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/unitofwork"
	"smart-fridge-be/pkg/events"
	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/sensor"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "fridge.events"

type consumerFixture struct {
	publisher     IPublisherService
	notifications INotificationService
	inventory     *inventoryService
	holder        *sensor.Holder
}

func newConsumerFixture(t *testing.T) *consumerFixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()

	f := &consumerFixture{
		publisher:     NewPublisherService(testTopic, pubSub, nil, log),
		notifications: NewNotificationService(factory, 50, nil, log),
		inventory:     NewInventoryService(factory, log).(*inventoryService),
		holder:        sensor.NewHolder(),
	}
	analysis := NewFridgeAnalysisService(llm.NewMockProvider("✅ Safe"), time.Second, log)

	consumer := NewConsumerService(pubSub, testTopic, f.notifications, f.inventory, analysis, f.holder, log)
	require.NoError(t, consumer.Consume(ctx))
	return f
}

func (f *consumerFixture) publish(t *testing.T, msg dto.UploadProcessedMessage) {
	t.Helper()
	event, err := events.FromStruct(events.UploadProcessed, msg)
	require.NoError(t, err)
	require.NoError(t, f.publisher.Publish(context.Background(), event))
}

func TestConsumerCreatesNotificationsAndAnalysis(t *testing.T) {
	ctx := context.Background()
	f := newConsumerFixture(t)

	_, err := f.inventory.Merge(ctx, "alice", []DetectedItem{{Name: "Fish", Quantity: 1}, {Name: "Soda", Quantity: 1}})
	require.NoError(t, err)

	f.publish(t, dto.UploadProcessedMessage{
		Username:          "alice",
		Sensor:            sensor.Snapshot{Temp: sensor.Float(9), Gas: sensor.Float(400)},
		TemperatureStatus: sensor.StatusDanger,
		HumidityStatus:    sensor.StatusUnknown,
		GasStatus:         sensor.StatusDanger,
		DetectedItems:     []string{"Fish", "Soda"},
		NewItems:          []string{"Fish", "Soda"},
		ImageProcessed:    true,
	})

	require.Eventually(t, func() bool {
		return f.holder.LatestAnalysis() != nil
	}, 5*time.Second, 20*time.Millisecond)

	list, err := f.notifications.List(ctx)
	require.NoError(t, err)

	byTitle := make(map[string]int)
	types := make(map[string]string)
	for _, n := range list.Notifications {
		byTitle[n.Title] = n.Priority
		types[n.Title] = n.Type
	}
	assert.Equal(t, 1, byTitle["Temperature danger"])
	assert.Equal(t, 2, byTitle["Gas level danger"])
	assert.Equal(t, 4, byTitle["New items added"])
	assert.Equal(t, 2, byTitle["Items expiring soon"])
	assert.Equal(t, entity.NotificationExpiry, types["Items expiring soon"])
	assert.NotContains(t, byTitle, "Humidity danger")

	analysis := f.holder.LatestAnalysis()
	assert.Equal(t, "✅ Safe", analysis.Sections[SectionSafety])
}

func TestConsumerIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	f := newConsumerFixture(t)

	event := events.BaseEvent{Type: events.NotificationCreated, Data: map[string]interface{}{"id": "x"}, OccurredAt: time.Now()}
	require.NoError(t, f.publisher.Publish(ctx, event))

	f.publish(t, dto.UploadProcessedMessage{Username: "bob", TemperatureStatus: sensor.StatusNormal})
	require.Eventually(t, func() bool {
		return f.holder.LatestAnalysis() != nil
	}, 5*time.Second, 20*time.Millisecond)

	list, err := f.notifications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
}
