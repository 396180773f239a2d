package controller

import (
	"webnotes-be/internal/dto"
	"webnotes-be/internal/pkg/serverutils"
	"webnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICaptureController interface {
	RegisterRoutes(r fiber.Router)
	Capture(ctx *fiber.Ctx) error
}

type captureController struct {
	captureService service.ICaptureService
}

func NewCaptureController(captureService service.ICaptureService) ICaptureController {
	return &captureController{
		captureService: captureService,
	}
}

func (c *captureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/capture/v1")
	h.Post("", c.Capture)
}

func (c *captureController) Capture(ctx *fiber.Ctx) error {
	var req dto.CaptureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.NewNote != nil {
		if err := serverutils.ValidateRequest(*req.NewNote); err != nil {
			return err
		}
	}
	if req.Remind != nil {
		if err := serverutils.ValidateRequest(*req.Remind); err != nil {
			return err
		}
	}

	res, err := c.captureService.Capture(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success capture content", res))
}
