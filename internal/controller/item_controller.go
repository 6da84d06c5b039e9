package controller

import (
	"strconv"
	"time"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/serverutils"
	"smart-fridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// maxExpiringDays keeps the lookahead well inside time.Duration's range.
const maxExpiringDays = 3650

type IItemController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Expiring(ctx *fiber.Ctx) error
}

type itemController struct {
	inventoryService service.IInventoryService
}

func NewItemController(inventoryService service.IInventoryService) IItemController {
	return &itemController{
		inventoryService: inventoryService,
	}
}

func (c *itemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/:username/items")
	h.Get("", c.List)
	h.Post("", c.Add)
	h.Get("/expiring", c.Expiring)
	h.Delete("/:item_id", c.Remove)
}

func (c *itemController) List(ctx *fiber.Ctx) error {
	items, err := c.inventoryService.ListItems(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewItemResponses(items))
}

func (c *itemController) Add(ctx *fiber.Ctx) error {
	var req dto.AddItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidPayload("%v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse(dto.DateLayout, req.ExpiryDate)
		if err != nil {
			return apperror.InvalidPayload("expiry_date must be YYYY-MM-DD")
		}
		expiry = &parsed
	}

	item, err := c.inventoryService.Upsert(ctx.UserContext(), ctx.Params("username"), req.Name, quantity, expiry)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewItemResponse(item))
}

func (c *itemController) Remove(ctx *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(ctx.Params("item_id"), 10, 64)
	if err != nil {
		return apperror.InvalidPayload("item_id must be a positive integer")
	}

	if err := c.inventoryService.Remove(ctx.UserContext(), ctx.Params("username"), uint(itemID)); err != nil {
		return err
	}
	return ctx.JSON(dto.RemoveItemResponse{Status: "success", Message: "Item removed"})
}

func (c *itemController) Expiring(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 3)
	if days < 0 || days > maxExpiringDays {
		return apperror.InvalidPayload("days must be between 0 and %d", maxExpiringDays)
	}

	expiring, err := c.inventoryService.ExpiringSoon(ctx.UserContext(), ctx.Params("username"), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}

	now := time.Now()
	res := make([]*dto.ExpiringItemResponse, 0, len(expiring))
	for _, e := range expiring {
		res = append(res, &dto.ExpiringItemResponse{
			ItemResponse:    *dto.NewItemResponse(e.Item),
			EffectiveExpiry: e.EffectiveExpiry.Format(dto.DateLayout),
			DaysLeft:        int(e.EffectiveExpiry.Sub(now).Hours() / 24),
			Estimated:       e.Estimated,
		})
	}
	return ctx.JSON(res)
}
