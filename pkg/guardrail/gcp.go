package guardrail

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// CloudVisionDetector labels images with Cloud Vision LABEL_DETECTION.
// Credentials come from the standard Application Default Credentials chain.
type CloudVisionDetector struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
}

var _ LabelDetector = (*CloudVisionDetector)(nil)

func NewCloudVisionDetector(ctx context.Context, timeout time.Duration) (*CloudVisionDetector, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &CloudVisionDetector{client: client, timeout: timeout}, nil
}

func (d *CloudVisionDetector) Method() string { return MethodGCP }

func (d *CloudVisionDetector) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: topLabels},
			},
		}},
	}

	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	labels := make([]Label, 0, len(r0.LabelAnnotations))
	for _, annotation := range r0.LabelAnnotations {
		labels = append(labels, Label{Name: annotation.GetDescription(), Score: float64(annotation.GetScore())})
	}
	return labels, nil
}

func (d *CloudVisionDetector) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}
