// Package guardrail gives a cheap advisory opinion on whether an upload shows food.
// Classifiers never fail: bad input yields a negative verdict instead of an error.
package guardrail

import (
	"context"
)

const (
	MethodHeuristic   = "basic_computer_vision"
	MethodDecodeError = "decode_error"
	MethodGCP         = "gcp_label_detection"
	MethodHuggingFace = "huggingface_food_classifier"
)

type Verdict struct {
	IsFoodLikely bool     `json:"is_food_likely"`
	Confidence   float64  `json:"confidence"`
	Method       string   `json:"method"`
	Labels       []string `json:"detected_labels,omitempty"`
}

type Classifier interface {
	Classify(ctx context.Context, image []byte) Verdict
}

// Fake always returns Verdict.
type Fake struct {
	Verdict Verdict
	Calls   int
}

func (f *Fake) Classify(ctx context.Context, image []byte) Verdict {
	f.Calls++
	return f.Verdict
}
