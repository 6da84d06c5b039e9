// Package sensor holds the latest fridge reading and the pure status rules applied to it.
package sensor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Snapshot is one complete reading. Nil fields were not reported by the device.
type Snapshot struct {
	Temp      *float64  `json:"temp"`
	Humidity  *float64  `json:"humidity"`
	Gas       *float64  `json:"gas"`
	Timestamp time.Time `json:"timestamp"`
}

// Detection is the last vision result kept for the status endpoint.
type Detection struct {
	Items           []string  `json:"items"`
	Confidence      float64   `json:"confidence"`
	ConfidenceLevel string    `json:"confidence_level"`
	Username        string    `json:"username"`
	DetectedAt      time.Time `json:"detected_at"`
}

// Analysis is the textual assessment produced after an upload.
type Analysis struct {
	AiResponse string            `json:"ai_response"`
	Priority   []string          `json:"priority"`
	Sections   map[string]string `json:"analysis"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// Holder is the process-wide latest-value store. Each value is swapped as a whole, so
// readers always see a consistent reading and never need a lock.
type Holder struct {
	snapshot  atomic.Pointer[Snapshot]
	detection atomic.Pointer[Detection]
	analysis  atomic.Pointer[Analysis]
}

func NewHolder() *Holder {
	return &Holder{}
}

// Replace stores a copy of s; later mutation of s by the caller is not observed.
func (h *Holder) Replace(s Snapshot) {
	h.snapshot.Store(&s)
}

// Latest returns nil until the first Replace.
func (h *Holder) Latest() *Snapshot {
	return h.snapshot.Load()
}

func (h *Holder) RecordDetection(d Detection) {
	h.detection.Store(&d)
}

func (h *Holder) LatestDetection() *Detection {
	return h.detection.Load()
}

func (h *Holder) RecordAnalysis(a Analysis) {
	h.analysis.Store(&a)
}

func (h *Holder) LatestAnalysis() *Analysis {
	return h.analysis.Load()
}

func Float(v float64) *float64 {
	return &v
}

// Describe renders the reading for prompts, with "Unknown" for missing values.
func (s *Snapshot) Describe() string {
	if s == nil {
		return "Temperature: Unknown, Humidity: Unknown, Gas level: Unknown"
	}
	return fmt.Sprintf("Temperature: %s, Humidity: %s, Gas level: %s",
		formatReading(s.Temp, "%.1f°C"),
		formatReading(s.Humidity, "%.1f%%"),
		formatReading(s.Gas, "%.0f ppm"))
}

func formatReading(v *float64, format string) string {
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf(format, *v)
}
