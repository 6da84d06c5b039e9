package guardrail

import (
	"context"
	"fmt"
	"math"
	"strings"

	"smart-fridge-be/internal/pkg/logger"
)

type Label struct {
	Name  string
	Score float64
}

// LabelDetector is an image-labelling backend (Cloud Vision, Hugging Face).
type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)
	Method() string
}

var foodKeywords = []string{
	"food", "fruit", "vegetable", "meat", "dairy", "bread",
	"apple", "banana", "orange", "carrot", "potato", "tomato",
	"cheese", "milk", "egg", "chicken", "beef", "fish",
	"pizza", "sandwich", "salad", "soup", "cake", "cookie",
}

const topLabels = 5

// LabelClassifier trusts an external labeller and falls back to the colour
// heuristic when the labeller is unreachable.
type LabelClassifier struct {
	detector LabelDetector
	fallback Classifier
	logger   logger.ILogger
}

var _ Classifier = (*LabelClassifier)(nil)

func NewLabelClassifier(detector LabelDetector, log logger.ILogger) *LabelClassifier {
	return &LabelClassifier{
		detector: detector,
		fallback: NewHeuristicClassifier(),
		logger:   log,
	}
}

func (c *LabelClassifier) Classify(ctx context.Context, image []byte) Verdict {
	if _, err := decode(image); err != nil {
		return Verdict{IsFoodLikely: false, Confidence: 0, Method: MethodDecodeError}
	}

	labels, err := c.detector.DetectLabels(ctx, image)
	if err != nil {
		c.logger.Warn("Guardrail", "Label detection failed, using heuristic", map[string]interface{}{
			"error":  err.Error(),
			"method": c.detector.Method(),
		})
		return c.fallback.Classify(ctx, image)
	}

	if len(labels) > topLabels {
		labels = labels[:topLabels]
	}

	var confidence float64
	described := make([]string, 0, len(labels))
	for _, label := range labels {
		name := strings.ToLower(label.Name)
		described = append(described, fmt.Sprintf("%s: %.2f", name, label.Score))
		if isFoodLabel(name) {
			confidence = math.Max(confidence, label.Score)
		}
	}

	return Verdict{
		IsFoodLikely: confidence > 0.3,
		Confidence:   confidence,
		Method:       c.detector.Method(),
		Labels:       described,
	}
}

func isFoodLabel(label string) bool {
	for _, keyword := range foodKeywords {
		if strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}
