package controller

import (
	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkAllRead(ctx *fiber.Ctx) error
}

type notificationController struct {
	notificationService service.INotificationService
}

func NewNotificationController(notificationService service.INotificationService) INotificationController {
	return &notificationController{
		notificationService: notificationService,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notifications")
	h.Get("", c.List)
	h.Post("/read-all", c.MarkAllRead)
	h.Post("/read/:id", c.MarkRead)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	res, err := c.notificationService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	if err := c.notificationService.MarkRead(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(dto.StatusOnlyResponse{Status: "success"})
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	if err := c.notificationService.MarkAllRead(ctx.UserContext()); err != nil {
		return err
	}
	return ctx.JSON(dto.StatusOnlyResponse{Status: "success"})
}
