package serverutils

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"smart-fridge-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, module: module, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("debug", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("info", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("warn", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("error", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func newTestApp(log *recordingLogger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(log)})
	app.Use(NewRecoverMiddleware(log))
	app.Get("/panic", func(ctx *fiber.Ctx) error {
		panic("inventory cache corrupted")
	})
	app.Get("/missing", func(ctx *fiber.Ctx) error {
		return apperror.NotFound("user %s not found", "bob")
	})
	return app
}

func TestPanicIsLoggedWithValueAndStack(t *testing.T) {
	log := &recordingLogger{}
	app := newTestApp(log)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, fmt.Sprint(body), "inventory cache corrupted")

	var recovered *logEntry
	for i := range log.entries {
		if log.entries[i].message == "Recovered from panic" {
			recovered = &log.entries[i]
		}
	}
	require.NotNil(t, recovered, "panic must be logged")
	assert.Equal(t, "error", recovered.level)
	assert.Equal(t, "inventory cache corrupted", recovered.details["error"])
	assert.Equal(t, "/panic", recovered.details["path"])
	assert.Contains(t, recovered.details["stack"], "goroutine")
}

func TestClientErrorsEchoTheirMessage(t *testing.T) {
	log := &recordingLogger{}
	app := newTestApp(log)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not found: user bob not found", body["message"])
	assert.Empty(t, log.entries)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing username", err: apperror.ErrMissingUsername, want: fiber.StatusBadRequest},
		{name: "invalid payload", err: apperror.InvalidPayload("bad"), want: fiber.StatusBadRequest},
		{name: "invalid quantity", err: fmt.Errorf("%w: milk", apperror.ErrInvalidQuantity), want: fiber.StatusBadRequest},
		{name: "not found", err: apperror.NotFound("item 3"), want: fiber.StatusNotFound},
		{name: "fiber error", err: fiber.ErrMethodNotAllowed, want: fiber.StatusMethodNotAllowed},
		{name: "storage", err: apperror.Storage("list items", fmt.Errorf("disk full")), want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
