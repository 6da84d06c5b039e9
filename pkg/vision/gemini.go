package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/sensor"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultGeminiModel   = "gemini-1.5-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type GeminiAnalyzer struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  logger.ILogger
}

var _ Analyzer = (*GeminiAnalyzer)(nil)

func NewGeminiAnalyzer(apiKey, baseURL, model string, timeout time.Duration, log logger.ILogger) *GeminiAnalyzer {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiAnalyzer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
		logger:  log,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error) {
	ctx, span := tracer.Start(ctx, "vision.gemini.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("vision.model", a.model), attribute.Int("vision.image_bytes", len(image)))

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := a.analyze(ctx, image, sensorContext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Error("VisionAnalyzer", "Gemini vision call failed", map[string]interface{}{
			"error": err.Error(),
			"model": a.model,
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("vision.items", len(result.Items)))
	a.logger.Info("VisionAnalyzer", "Gemini vision call finished", map[string]interface{}{
		"items":      result.Names(),
		"confidence": result.Confidence,
	})
	return result, nil
}

func (a *GeminiAnalyzer) analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error) {
	if a.apiKey == "" {
		return nil, unavailable("GOOGLE_GEMINI_API_KEY is not configured")
	}

	var reqBody geminiRequest
	reqBody.Contents = make([]struct {
		Parts []geminiPart `json:"parts"`
	}, 1)
	reqBody.Contents[0].Parts = []geminiPart{
		{Text: systemPrompt + "\n" + userPrompt(sensorContext)},
		{InlineData: &geminiInlineData{
			MimeType: sniffMimeType(image),
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	}
	reqBody.GenerationConfig = map[string]interface{}{
		"temperature": 0.1,
		"topP":        0.8,
		"topK":        40,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, unavailable("marshal request: %v", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, unavailable("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("gemini status %d: %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, unavailable("decode response: %v", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, unavailable("no candidates returned")
	}

	return newResult(ParseDetections(parsed.Candidates[0].Content.Parts[0].Text)), nil
}
