package dto

import (
	"time"

	"smart-fridge-be/pkg/guardrail"
	"smart-fridge-be/pkg/sensor"
)

// SensorPayload is the JSON carried in the multipart "data" part.
type SensorPayload struct {
	Temp        *float64 `json:"temp"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	Gas         *float64 `json:"gas" validate:"omitempty,gte=0"`
	ImageBase64 string   `json:"image_base64"`
	UserMessage string   `json:"user_message" validate:"max=2000"`
}

// UploadCommand carries the raw parts; the image format is sniffed from its bytes.
type UploadCommand struct {
	Username string
	Data     []byte
	Image    []byte
}

const (
	VisionStatusOK          = "ok"
	VisionStatusUnavailable = "unavailable"
	VisionStatusNoImage     = "no_image"
)

type UploadResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`

	Sensor sensor.Snapshot `json:"sensor"`
	sensor.Statuses

	ImageProcessed     bool               `json:"image_processed"`
	VisionStatus       string             `json:"vision_status"`
	FoodItems          []string           `json:"food_items"`
	VisionConfidence   float64            `json:"vision_confidence"`
	ConfidenceLevel    string             `json:"confidence_level,omitempty"`
	Guardrail          *guardrail.Verdict `json:"guardrail,omitempty"`
	ItemsMerged        int                `json:"items_merged"`
	MergeSkippedReason string             `json:"merge_skipped_reason,omitempty"`
	Inventory          []*ItemResponse    `json:"inventory"`
}

type FridgeStatusResponse struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Sensor    *sensor.Snapshot `json:"sensor"`
	sensor.Statuses
	Detection  *sensor.Detection `json:"detection,omitempty"`
	AiResponse string            `json:"ai_response"`
	Priority   []string          `json:"priority"`
	Analysis   map[string]string `json:"analysis"`
}

type ServerInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Environment   string   `json:"environment"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Features      []string `json:"features"`
}

type StatusResponse struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
	ServerInfo ServerInfo `json:"server_info"`
}

// UploadProcessedMessage travels on the event bus after each upload.
type UploadProcessedMessage struct {
	Username          string          `json:"username"`
	Sensor            sensor.Snapshot `json:"sensor"`
	TemperatureStatus sensor.Status   `json:"temperature_status"`
	HumidityStatus    sensor.Status   `json:"humidity_status"`
	GasStatus         sensor.Status   `json:"gas_status"`
	DetectedItems     []string        `json:"detected_items"`
	NewItems          []string        `json:"new_items"`
	ImageProcessed    bool            `json:"image_processed"`
}
