package controller

import (
	"io"

	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	UploadMultipart(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadService service.IUploadService
}

func NewUploadController(uploadService service.IUploadService) IUploadController {
	return &uploadController{
		uploadService: uploadService,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload/multipart", c.UploadMultipart)
}

// UploadMultipart takes the "data" JSON part, an optional "image" file and "username".
func (c *uploadController) UploadMultipart(ctx *fiber.Ctx) error {
	cmd := dto.UploadCommand{
		Username: ctx.FormValue("username"),
		Data:     []byte(ctx.FormValue("data")),
	}

	if fileHeader, err := ctx.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperror.InvalidPayload("cannot read image: %v", err)
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			return apperror.InvalidPayload("cannot read image: %v", err)
		}
		cmd.Image = image
	}

	res, err := c.uploadService.HandleUpload(ctx.UserContext(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
