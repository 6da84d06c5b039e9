package guardrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
)

const (
	defaultFoodModelURL = "https://api-inference.huggingface.co/models/nateraw/food"
	maxUploadSide       = 800
)

// HuggingFaceDetector posts the image to a hosted food classification model.
type HuggingFaceDetector struct {
	url    string
	token  string
	client *http.Client
}

var _ LabelDetector = (*HuggingFaceDetector)(nil)

func NewHuggingFaceDetector(url, token string, timeout time.Duration) *HuggingFaceDetector {
	if url == "" {
		url = defaultFoodModelURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HuggingFaceDetector{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (d *HuggingFaceDetector) Method() string { return MethodHuggingFace }

func (d *HuggingFaceDetector) DetectLabels(ctx context.Context, raw []byte) ([]Label, error) {
	payload, err := shrinkToJPEG(raw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface status %d: %s", resp.StatusCode, string(body))
	}

	var predictions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &predictions); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	labels := make([]Label, 0, len(predictions))
	for _, p := range predictions {
		labels = append(labels, Label{Name: p.Label, Score: p.Score})
	}
	return labels, nil
}

// shrinkToJPEG re-encodes the image as JPEG, at most maxUploadSide on its longest side.
func shrinkToJPEG(raw []byte) ([]byte, error) {
	img, err := decode(raw)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxUploadSide || h > maxUploadSide {
		scale := float64(maxUploadSide) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
