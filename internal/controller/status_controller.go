package controller

import (
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/pkg/sensor"

	"github.com/gofiber/fiber/v2"
)

type IStatusController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	FridgeStatus(ctx *fiber.Ctx) error
}

type statusController struct {
	info      dto.ServerInfo
	holder    *sensor.Holder
	startedAt time.Time
}

// NewStatusController reports info as the server description; UptimeSeconds is filled per request.
func NewStatusController(info dto.ServerInfo, holder *sensor.Holder) IStatusController {
	return &statusController{
		info:      info,
		holder:    holder,
		startedAt: time.Now(),
	}
}

func (c *statusController) RegisterRoutes(r fiber.Router) {
	r.Get("/status", c.Status)
	r.Get("/fridge-status", c.FridgeStatus)
}

func (c *statusController) Status(ctx *fiber.Ctx) error {
	info := c.info
	info.UptimeSeconds = int64(time.Since(c.startedAt).Seconds())

	return ctx.JSON(dto.StatusResponse{
		Status:     "online",
		Message:    "Welcome to Smart Fridge AI API",
		Timestamp:  time.Now(),
		ServerInfo: info,
	})
}

func (c *statusController) FridgeStatus(ctx *fiber.Ctx) error {
	snapshot := c.holder.Latest()
	if snapshot == nil {
		return apperror.NotFound("no fridge data received yet")
	}

	res := dto.FridgeStatusResponse{
		Status:     "ok",
		Timestamp:  snapshot.Timestamp,
		Sensor:     snapshot,
		Statuses:   sensor.Classify(snapshot),
		Detection:  c.holder.LatestDetection(),
		AiResponse: "AI analysis unavailable",
		Priority:   []string{"safety", "freshness", "recipes"},
		Analysis:   map[string]string{},
	}
	if analysis := c.holder.LatestAnalysis(); analysis != nil {
		res.AiResponse = analysis.AiResponse
		res.Priority = analysis.Priority
		res.Analysis = analysis.Sections
	}
	return ctx.JSON(res)
}
