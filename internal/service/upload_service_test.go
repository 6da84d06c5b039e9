package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/events"
	"smart-fridge-be/pkg/guardrail"
	"smart-fridge-be/pkg/sensor"
	"smart-fridge-be/pkg/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadFixture struct {
	svc       IUploadService
	holder    *sensor.Holder
	guard     *guardrail.Fake
	analyzer  *vision.Fake
	inventory IInventoryService
	publisher *recordingPublisher
}

func newUploadFixture(t *testing.T, threshold float64) *uploadFixture {
	t.Helper()
	inventory, _ := newTestInventory(t)
	f := &uploadFixture{
		holder:    sensor.NewHolder(),
		guard:     &guardrail.Fake{Verdict: guardrail.Verdict{IsFoodLikely: true, Confidence: 0.6, Method: guardrail.MethodHeuristic}},
		analyzer:  vision.NewFake(0.9, "Milk", "milk", "Eggs"),
		inventory: inventory,
		publisher: &recordingPublisher{},
	}
	f.svc = NewUploadService(f.holder, f.guard, f.analyzer, f.inventory, f.publisher, threshold, logger.NewNopLogger())
	return f
}

func TestUploadRequiresUsername(t *testing.T) {
	f := newUploadFixture(t, 0.3)

	_, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{Username: "  ", Data: []byte(`{"temp": 4}`)})
	assert.ErrorIs(t, err, apperror.ErrMissingUsername)
	assert.Nil(t, f.holder.Latest())
}

func TestUploadRejectsBadPayloadWithoutSideEffects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing", data: ""},
		{name: "malformed", data: `{"temp": 4`},
		{name: "humidity out of range", data: `{"temp": 4, "humidity": 120}`},
		{name: "negative gas", data: `{"gas": -1}`},
		{name: "bad base64", data: `{"temp": 4, "image_base64": "***"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture(t, 0.3)

			_, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
				Username: "alice",
				Data:     []byte(tt.data),
				Image:    []byte("jpeg"),
			})
			assert.ErrorIs(t, err, apperror.ErrInvalidPayload)
			assert.Nil(t, f.holder.Latest())
			assert.Zero(t, f.analyzer.Calls)
			assert.Empty(t, f.publisher.Events())

			_, err = f.inventory.ListItems(context.Background(), "alice")
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		})
	}
}

func TestUploadMergesDetections(t *testing.T) {
	f := newUploadFixture(t, 0.3)

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: " alice ",
		Data:     []byte(`{"temp": 4.5, "humidity": 55, "gas": 120}`),
		Image:    []byte("jpeg"),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", res.Username)
	assert.True(t, res.ImageProcessed)
	assert.Equal(t, dto.VisionStatusOK, res.VisionStatus)
	assert.Equal(t, []string{"Milk", "milk", "Eggs"}, res.FoodItems)
	assert.Equal(t, vision.LevelHigh, res.ConfidenceLevel)
	assert.Equal(t, 2, res.ItemsMerged)
	assert.Empty(t, res.MergeSkippedReason)
	assert.Equal(t, sensor.StatusNormal, res.Temperature)
	assert.Equal(t, sensor.StatusNormal, res.Humidity)
	assert.Equal(t, sensor.StatusNormal, res.Gas)

	require.Len(t, res.Inventory, 2)
	assert.Equal(t, "Milk", res.Inventory[0].Name)
	assert.Equal(t, 2, res.Inventory[0].Quantity)
	assert.Equal(t, "Eggs", res.Inventory[1].Name)

	latest := f.holder.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, 4.5, *latest.Temp)
	require.NotNil(t, f.holder.LatestDetection())
	assert.Equal(t, "alice", f.holder.LatestDetection().Username)
	require.Len(t, f.analyzer.Context, 1)
	assert.Equal(t, 4.5, *f.analyzer.Context[0].Temp)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.UploadProcessed, published[0].EventType())
	assert.Equal(t, []interface{}{"Milk", "Eggs"}, published[0].Payload()["new_items"])
}

func TestUploadVisionUnavailableDegrades(t *testing.T) {
	f := newUploadFixture(t, 0.3)
	f.analyzer.Err = fmt.Errorf("%w: status 429", vision.ErrUnavailable)

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{"temp": 8}`),
		Image:    []byte("jpeg"),
	})
	require.NoError(t, err)

	assert.False(t, res.ImageProcessed)
	assert.Equal(t, dto.VisionStatusUnavailable, res.VisionStatus)
	assert.Equal(t, []string{}, res.FoodItems)
	assert.Equal(t, sensor.StatusDanger, res.Temperature)
	assert.Equal(t, sensor.StatusUnknown, res.Humidity)
	assert.Empty(t, res.Inventory)

	require.NotNil(t, f.holder.Latest())
	assert.Equal(t, 8.0, *f.holder.Latest().Temp)
	assert.Nil(t, f.holder.LatestDetection())
	assert.Len(t, f.publisher.Events(), 1)
}

func TestUploadSkipsMergeBelowGuardrailThreshold(t *testing.T) {
	f := newUploadFixture(t, 0.3)
	f.guard.Verdict = guardrail.Verdict{Confidence: 0.1, Method: guardrail.MethodHeuristic}

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{"temp": 4}`),
		Image:    []byte("jpeg"),
	})
	require.NoError(t, err)

	assert.True(t, res.ImageProcessed)
	assert.NotEmpty(t, res.FoodItems)
	assert.Zero(t, res.ItemsMerged)
	assert.NotEmpty(t, res.MergeSkippedReason)
	require.NotNil(t, res.Guardrail)
	assert.Equal(t, 0.1, res.Guardrail.Confidence)

	_, err = f.inventory.ListItems(context.Background(), "alice")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUploadZeroThresholdAlwaysMerges(t *testing.T) {
	f := newUploadFixture(t, 0)
	f.guard.Verdict = guardrail.Verdict{Confidence: 0}

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{}`),
		Image:    []byte("jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsMerged)
}

func TestUploadUsesBase64ImageWhenNoFilePart(t *testing.T) {
	f := newUploadFixture(t, 0.3)
	encoded := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{"temp": 4, "image_base64": "data:image/jpeg;base64,` + encoded + `"}`),
	})
	require.NoError(t, err)

	assert.True(t, res.ImageProcessed)
	assert.Equal(t, 1, f.analyzer.Calls)
	assert.Equal(t, 1, f.guard.Calls)
}

func TestUploadWithoutImage(t *testing.T) {
	f := newUploadFixture(t, 0.3)

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{"temp": 2.5, "humidity": 35, "gas": 250, "user_message": "hi"}`),
	})
	require.NoError(t, err)

	assert.False(t, res.ImageProcessed)
	assert.Equal(t, dto.VisionStatusNoImage, res.VisionStatus)
	assert.Nil(t, res.Guardrail)
	assert.Zero(t, f.analyzer.Calls)
	assert.Equal(t, sensor.StatusWarning, res.Temperature)
	assert.Equal(t, sensor.StatusWarning, res.Humidity)
	assert.Equal(t, sensor.StatusWarning, res.Gas)
}

func TestUploadPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newUploadFixture(t, 0.3)
	f.publisher.err = fmt.Errorf("bus closed")

	res, err := f.svc.HandleUpload(context.Background(), dto.UploadCommand{
		Username: "alice",
		Data:     []byte(`{"temp": 4}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
}
