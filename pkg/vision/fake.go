package vision

import (
	"context"
	"sync"

	"smart-fridge-be/pkg/sensor"
)

// Fake returns a fixed result (or error) and records what it was asked.
type Fake struct {
	mu      sync.Mutex
	Result  *DetectionResult
	Err     error
	Calls   int
	Context []*sensor.Snapshot
}

var _ Analyzer = (*Fake)(nil)

// NewFake builds a fake that detects the given names with the given confidence each.
func NewFake(confidence float64, names ...string) *Fake {
	items := make([]Detection, 0, len(names))
	for _, name := range names {
		items = append(items, Detection{Name: name, Confidence: confidence})
	}
	return &Fake{Result: newResult(items)}
}

func (f *Fake) Analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.Context = append(f.Context, sensorContext)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}
