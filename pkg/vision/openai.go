package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/sensor"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultOpenAIModel   = "gpt-4o"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

type OpenAIAnalyzer struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  logger.ILogger
}

var _ Analyzer = (*OpenAIAnalyzer)(nil)

func NewOpenAIAnalyzer(apiKey, baseURL, model string, timeout time.Duration, log logger.ILogger) *OpenAIAnalyzer {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIAnalyzer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
		logger:  log,
	}
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openAIVisionRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIVisionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error) {
	ctx, span := tracer.Start(ctx, "vision.openai.Analyze")
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
		a.logger.Error("VisionAnalyzer", "OpenAI vision call failed", map[string]interface{}{
			"error": err.Error(),
			"model": a.model,
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("vision.items", len(result.Items)))
	a.logger.Info("VisionAnalyzer", "OpenAI vision call finished", map[string]interface{}{
		"items":      result.Names(),
		"confidence": result.Confidence,
	})
	return result, nil
}

func (a *OpenAIAnalyzer) analyze(ctx context.Context, image []byte, sensorContext *sensor.Snapshot) (*DetectionResult, error) {
	if a.apiKey == "" {
		return nil, unavailable("OPENAI_API_KEY is not configured")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", sniffMimeType(image), base64.StdEncoding.EncodeToString(image))
	reqBody := openAIVisionRequest{
		Model: a.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []openAIContentPart{
				{Type: "text", Text: userPrompt(sensorContext)},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
			}},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, unavailable("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, unavailable("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

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
		return nil, unavailable("openai status %d: %s", resp.StatusCode, string(body))
	}

	var parsed openAIVisionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, unavailable("decode response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, unavailable("no choices returned")
	}

	return newResult(ParseDetections(parsed.Choices[0].Message.Content)), nil
}
