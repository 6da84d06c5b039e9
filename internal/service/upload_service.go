package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/pkg/serverutils"
	"smart-fridge-be/pkg/events"
	"smart-fridge-be/pkg/guardrail"
	"smart-fridge-be/pkg/sensor"
	"smart-fridge-be/pkg/vision"
)

type IUploadService interface {
	HandleUpload(ctx context.Context, cmd dto.UploadCommand) (*dto.UploadResponse, error)
}

type uploadService struct {
	holder    *sensor.Holder
	guardrail guardrail.Classifier
	analyzer  vision.Analyzer
	inventory IInventoryService
	publisher IPublisherService
	threshold float64
	logger    logger.ILogger
	now       func() time.Time
}

// NewUploadService wires the upload pipeline. threshold is the guardrail confidence
// under which detections are reported but not merged; 0 always merges.
func NewUploadService(
	holder *sensor.Holder,
	classifier guardrail.Classifier,
	analyzer vision.Analyzer,
	inventory IInventoryService,
	publisher IPublisherService,
	threshold float64,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		holder:    holder,
		guardrail: classifier,
		analyzer:  analyzer,
		inventory: inventory,
		publisher: publisher,
		threshold: threshold,
		logger:    log,
		now:       time.Now,
	}
}

func (s *uploadService) HandleUpload(ctx context.Context, cmd dto.UploadCommand) (*dto.UploadResponse, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, apperror.ErrMissingUsername
	}

	payload, err := parseSensorPayload(cmd.Data)
	if err != nil {
		return nil, err
	}

	image := cmd.Image
	if len(image) == 0 && payload.ImageBase64 != "" {
		image, err = decodeImageBase64(payload.ImageBase64)
		if err != nil {
			return nil, err
		}
	}

	// Nothing is mutated above this line.
	snapshot := sensor.Snapshot{
		Temp:      payload.Temp,
		Humidity:  payload.Humidity,
		Gas:       payload.Gas,
		Timestamp: s.now(),
	}
	s.holder.Replace(snapshot)

	res := &dto.UploadResponse{
		Status:       "success",
		Message:      "Fridge data processed",
		Timestamp:    snapshot.Timestamp,
		Username:     username,
		Sensor:       snapshot,
		Statuses:     sensor.Classify(&snapshot),
		VisionStatus: dto.VisionStatusNoImage,
		FoodItems:    []string{},
		Inventory:    []*dto.ItemResponse{},
	}

	var newItems []string
	if len(image) > 0 {
		newItems, err = s.processImage(ctx, username, image, &snapshot, res)
		if err != nil {
			return nil, err
		}
	}

	items, err := s.inventory.ListItems(ctx, username)
	switch {
	case err == nil:
		res.Inventory = dto.NewItemResponses(items)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	s.publishProcessed(ctx, res, newItems)
	return res, nil
}

// processImage runs guardrail, vision and merge, filling res. A vision failure
// degrades the response; only a storage failure is returned.
func (s *uploadService) processImage(ctx context.Context, username string, image []byte, snapshot *sensor.Snapshot, res *dto.UploadResponse) ([]string, error) {
	verdict := s.guardrail.Classify(ctx, image)
	res.Guardrail = &verdict

	result, err := s.analyzer.Analyze(ctx, image, snapshot)
	if err != nil {
		s.logger.Warn("UploadService", "Vision analysis unavailable", map[string]interface{}{
			"error":    err.Error(),
			"username": username,
		})
		res.VisionStatus = dto.VisionStatusUnavailable
		return nil, nil
	}

	names := result.Names()
	res.ImageProcessed = true
	res.VisionStatus = dto.VisionStatusOK
	res.FoodItems = names
	res.VisionConfidence = result.Confidence
	res.ConfidenceLevel = result.ConfidenceLevel

	s.holder.RecordDetection(sensor.Detection{
		Items:           names,
		Confidence:      result.Confidence,
		ConfidenceLevel: result.ConfidenceLevel,
		Username:        username,
		DetectedAt:      s.now(),
	})

	if s.threshold > 0 && verdict.Confidence < s.threshold {
		res.MergeSkippedReason = "image does not look like food (guardrail confidence below threshold)"
		s.logger.Info("UploadService", "Skipping merge, guardrail below threshold", map[string]interface{}{
			"username":   username,
			"confidence": verdict.Confidence,
			"threshold":  s.threshold,
			"method":     verdict.Method,
		})
		return nil, nil
	}

	detected := CoalesceNames(names)
	if len(detected) == 0 {
		return nil, nil
	}

	outcome, err := s.inventory.Merge(ctx, username, detected)
	if err != nil {
		return nil, err
	}
	res.ItemsMerged = len(outcome.Items)
	return outcome.Created, nil
}

func (s *uploadService) publishProcessed(ctx context.Context, res *dto.UploadResponse, newItems []string) {
	if s.publisher == nil {
		return
	}
	if newItems == nil {
		newItems = []string{}
	}

	event, err := events.FromStruct(events.UploadProcessed, dto.UploadProcessedMessage{
		Username:          res.Username,
		Sensor:            res.Sensor,
		TemperatureStatus: res.Temperature,
		HumidityStatus:    res.Humidity,
		GasStatus:         res.Gas,
		DetectedItems:     res.FoodItems,
		NewItems:          newItems,
		ImageProcessed:    res.ImageProcessed,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Error("UploadService", "Failed to publish upload event", map[string]interface{}{
			"error":    err.Error(),
			"username": res.Username,
		})
	}
}

func parseSensorPayload(data []byte) (*dto.SensorPayload, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, apperror.InvalidPayload("data part is required")
	}

	var payload dto.SensorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperror.InvalidPayload("data is not valid JSON: %v", err)
	}
	if err := serverutils.ValidateRequest(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// decodeImageBase64 accepts raw base64 or a data URL ("data:image/jpeg;base64,...").
func decodeImageBase64(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.Index(encoded, ","); idx >= 0 {
			encoded = encoded[idx+1:]
		}
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperror.InvalidPayload("image_base64 is not valid base64")
	}
	return image, nil
}
