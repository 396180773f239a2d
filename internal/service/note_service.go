package service

import (
	"context"
	"time"

	"webnotes-be/internal/apperr"
	"webnotes-be/internal/dto"
	"webnotes-be/internal/entity"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/specification"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/internal/scheduler"
	"webnotes-be/pkg/embedding"
	"webnotes-be/pkg/events"
)

type INoteService interface {
	Create(ctx context.Context, req *dto.SaveNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, id int64, req *dto.SaveNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id int64) error
	DeleteContent(ctx context.Context, contentId int64) error
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.Provider
	scheduler         *scheduler.ReminderScheduler
	views             IViewService
	logger            logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.Provider,
	reminderScheduler *scheduler.ReminderScheduler,
	views IViewService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		scheduler:         reminderScheduler,
		views:             views,
		logger:            log,
	}
}

// noteEmbedText is the exact text a note's embedding is computed from. The
// name is part of it: a note called "pasta recipes" should be findable even
// when its body never uses the word.
func noteEmbedText(name, note string) string {
	if note == "" {
		return name
	}
	return name + "\n\n" + note
}

// Create stores a new note with its embedding computed synchronously. An
// embedding failure does not fail the save: the text is stored anyway,
// flagged stale, and a repair request goes on the bus.
func (s *noteService) Create(ctx context.Context, req *dto.SaveNoteRequest) (*dto.NoteResponse, error) {
	note := &entity.Note{
		Name:      req.Name,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}

	result, embedErr := s.embeddingProvider.Generate(ctx, noteEmbedText(req.Name, req.Note), embedding.TaskDocument)
	if embedErr != nil {
		s.logger.Warn("NoteService", "embedding failed on create, storing stale", map[string]interface{}{
			"error": embedErr.Error(),
		})
		note.EmbeddingStale = true
	} else {
		note.Embedding = result.Values
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, err
	}

	if embedErr != nil {
		s.queueRepair(ctx, events.KindRepairNote, note.Id)
	}

	s.views.Invalidate()
	return toNoteResponse(note), nil
}

// Update rewrites the note's text and recomputes its embedding. When the
// recompute fails the previous embedding is kept but flagged stale, so
// semantic search never matches the new text against an old vector.
func (s *noteService) Update(ctx context.Context, id int64, req *dto.SaveNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.NotFound("note", id)
	}

	note.Name = req.Name
	note.Note = req.Note

	result, embedErr := s.embeddingProvider.Generate(ctx, noteEmbedText(req.Name, req.Note), embedding.TaskDocument)
	if embedErr != nil {
		s.logger.Warn("NoteService", "embedding failed on update, flagging stale", map[string]interface{}{
			"note_id": id,
			"error":   embedErr.Error(),
		})
		note.EmbeddingStale = true
	} else {
		note.Embedding = result.Values
		note.EmbeddingStale = false
	}

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	if embedErr != nil {
		s.queueRepair(ctx, events.KindRepairNote, note.Id)
	}

	s.views.Invalidate()
	return toNoteResponse(note), nil
}

// Delete removes the note and everything hanging off it. The scheduler
// trigger is cancelled first, so a reminder cannot fire for a note that is
// about to disappear.
func (s *noteService) Delete(ctx context.Context, id int64) error {
	s.scheduler.Cancel(id)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		return apperr.NotFound("note", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ReminderRepository().DeleteByNoteId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ContentItemRepository().DeleteByNoteId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.views.Invalidate()
	return nil
}

// DeleteContent removes a single captured snippet, leaving the owning note
// in place. The note keeps its own embedding, so no repair is needed.
func (s *noteService) DeleteContent(ctx context.Context, contentId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ContentItemRepository().FindOne(ctx, specification.ByID{ID: contentId})
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFound("content item", contentId)
	}

	if err := uow.ContentItemRepository().Delete(ctx, contentId); err != nil {
		return err
	}

	s.views.Invalidate()
	return nil
}

func (s *noteService) queueRepair(ctx context.Context, kind string, id int64) {
	payload, err := events.Marshal(events.RepairMessage{
		Kind:       kind,
		Id:         id,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("NoteService", "failed to marshal repair message", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("NoteService", "failed to publish repair message", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:             note.Id,
		Name:           note.Name,
		Note:           note.Note,
		EmbeddingStale: note.EmbeddingStale,
		CreatedAt:      note.CreatedAt,
	}
}
