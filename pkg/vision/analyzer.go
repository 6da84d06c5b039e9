// Package vision turns a fridge photo into a list of detected food items
// by asking a multimodal model.
package vision

import (
	"context"
	"fmt"
	"strings"

	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/pkg/sensor"

	"go.opentelemetry.io/otel"
)

const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// ErrUnavailable is returned (wrapped) for any failed analysis: transport, timeout,
// non-200 status or a response that could not be parsed.
var ErrUnavailable = apperror.ErrVisionUnavailable

var tracer = otel.Tracer("smart-fridge-be/pkg/vision")

type Detection struct {
	Name            string  `json:"name"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLevel string  `json:"confidence_level"`
}

type DetectionResult struct {
	Items           []Detection `json:"items"`
	Confidence      float64     `json:"confidence"`
	ConfidenceLevel string      `json:"confidence_level"`
}

// Names returns the detected names in detection order.
func (r *DetectionResult) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		names = append(names, item.Name)
	}
	return names
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error)
}

// ConfidenceLevel buckets a score: high at 0.8 and above, medium at 0.5 and above.
func ConfidenceLevel(score float64) string {
	switch {
	case score >= 0.8:
		return LevelHigh
	case score >= 0.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

func newResult(items []Detection) *DetectionResult {
	result := &DetectionResult{Items: items}
	if len(items) > 0 {
		var sum float64
		for i := range items {
			items[i].ConfidenceLevel = ConfidenceLevel(items[i].Confidence)
			sum += items[i].Confidence
		}
		result.Confidence = sum / float64(len(items))
	}
	if result.Items == nil {
		result.Items = []Detection{}
	}
	result.ConfidenceLevel = ConfidenceLevel(result.Confidence)
	return result
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

const systemPrompt = "You are a smart fridge AI that detects food items in images. " +
	"Return ONLY a JSON array of objects with \"name\" and \"confidence\" (0 to 1) for each food item visible. " +
	"Be specific, but use common food names."

func userPrompt(sensorContext *sensor.Snapshot) string {
	var b strings.Builder
	b.WriteString("What food items do you see in this fridge image? ")
	b.WriteString(`Return ONLY a JSON array, e.g. [{"name": "apple", "confidence": 0.9}, {"name": "milk", "confidence": 0.7}].`)
	if sensorContext != nil {
		b.WriteString("\nCurrent fridge readings: ")
		b.WriteString(sensorContext.Describe())
	}
	return b.String()
}

func sniffMimeType(image []byte) string {
	switch {
	case len(image) >= 8 && string(image[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(image) >= 6 && (string(image[:6]) == "GIF87a" || string(image[:6]) == "GIF89a"):
		return "image/gif"
	case len(image) >= 12 && string(image[:4]) == "RIFF" && string(image[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
