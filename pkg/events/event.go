package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types published by the fridge pipeline.
const (
	UploadProcessed     = "upload.processed"
	NotificationCreated = "notification.created"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "upload.processed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// FromStruct builds an event whose payload is the JSON object form of v,
// so a consumer can decode it back into the same struct.
func FromStruct(eventType string, v interface{}) (BaseEvent, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return BaseEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	data := make(map[string]interface{})
	if err := json.Unmarshal(raw, &data); err != nil {
		return BaseEvent{}, fmt.Errorf("%s payload is not an object: %w", eventType, err)
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}, nil
}

// Decode reads an event payload back into dst.
func Decode(payload []byte, dst interface{}) error {
	return json.Unmarshal(payload, dst)
}
