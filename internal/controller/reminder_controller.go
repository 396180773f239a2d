package controller

import (
	"webnotes-be/internal/dto"
	"webnotes-be/internal/pkg/serverutils"
	"webnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReminderController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type reminderController struct {
	reminderService service.IReminderService
}

func NewReminderController(reminderService service.IReminderService) IReminderController {
	return &reminderController{
		reminderService: reminderService,
	}
}

func (c *reminderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Put(":id/reminder", c.Upsert)
	h.Delete(":id/reminder", c.Clear)
}

func (c *reminderController) Upsert(ctx *fiber.Ctx) error {
	noteId, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertReminderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reminderService.Upsert(ctx.Context(), noteId, req.RemindAt)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set reminder", res))
}

func (c *reminderController) Clear(ctx *fiber.Ctx) error {
	noteId, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.reminderService.Clear(ctx.Context(), noteId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear reminder", nil))
}
