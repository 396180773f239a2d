package controller

import (
	"strconv"

	"webnotes-be/internal/dto"
	"webnotes-be/internal/entity"
	"webnotes-be/internal/pkg/serverutils"
	"webnotes-be/internal/service"
	"webnotes-be/pkg/summarize"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	DeleteContent(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	viewService service.IViewService
}

func NewNoteController(noteService service.INoteService, viewService service.IViewService) INoteController {
	return &noteController{
		noteService: noteService,
		viewService: viewService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Delete("content/:id", c.DeleteContent)
	h.Delete(":id", c.Delete)
	h.Post(":id/summarize", c.Summarize)
}

// List serves both the plain aggregated list and searches: ?q= plus
// ?mode=substring|semantic. No query returns everything in creation order.
func (c *noteController) List(ctx *fiber.Ctx) error {
	var req dto.SearchNotesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	mode := service.SearchMode(req.Mode)
	if mode == "" {
		mode = service.ModeSubstring
	}

	views, err := c.viewService.Search(ctx.Context(), req.Query, mode)
	if err != nil {
		return err
	}

	res := make([]dto.NoteViewResponse, 0, len(views))
	for _, view := range views {
		res = append(res, toNoteViewResponse(view, mode == service.ModeSemantic))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.SaveNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", nil))
}

func (c *noteController) DeleteContent(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid content id")
	}

	if err := c.noteService.DeleteContent(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete content item", nil))
}

func (c *noteController) Summarize(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SummarizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	summary, err := c.viewService.Summarize(ctx.Context(), id, summarize.Config{
		Type:   req.Type,
		Length: req.Length,
		Format: req.Format,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize note", dto.SummarizeResponse{
		NoteId:  id,
		Summary: summary,
	}))
}

func parseIdParam(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	return id, nil
}

func toNoteViewResponse(view *entity.NoteView, withSimilarity bool) dto.NoteViewResponse {
	res := dto.NoteViewResponse{
		NoteResponse: dto.NoteResponse{
			Id:             view.Note.Id,
			Name:           view.Note.Name,
			Note:           view.Note.Note,
			EmbeddingStale: view.Note.EmbeddingStale,
			CreatedAt:      view.Note.CreatedAt,
		},
		Contents: make([]dto.ContentItemResponse, 0, len(view.Contents)),
	}

	for _, item := range view.Contents {
		res.Contents = append(res.Contents, dto.ContentItemResponse{
			Id:         item.Id,
			NoteId:     item.NoteId,
			Text:       item.Text,
			Url:        item.Url,
			FavIconUrl: item.FavIconUrl,
			CreatedAt:  item.CreatedAt,
		})
	}

	if view.Reminder != nil {
		res.Reminder = &dto.ReminderResponse{
			Id:       view.Reminder.Id,
			NoteId:   view.Reminder.NoteId,
			RemindAt: view.Reminder.RemindAt,
			Reminded: view.Reminder.Reminded,
		}
	}

	if withSimilarity {
		similarity := view.Similarity
		res.Similarity = &similarity
	}

	return res
}
