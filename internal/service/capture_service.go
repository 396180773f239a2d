package service

import (
	"context"
	"fmt"
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

// ICaptureService implements the one-shot capture flow: a web snippet lands
// in an existing or brand-new note, optionally with a reminder, in a single
// transaction.
type ICaptureService interface {
	Capture(ctx context.Context, req *dto.CaptureRequest) (*dto.CaptureResponse, error)
}

type captureService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.Provider
	scheduler         *scheduler.ReminderScheduler
	views             IViewService
	logger            logger.ILogger
}

func NewCaptureService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.Provider,
	reminderScheduler *scheduler.ReminderScheduler,
	views IViewService,
	log logger.ILogger,
) ICaptureService {
	return &captureService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		scheduler:         reminderScheduler,
		views:             views,
		logger:            log,
	}
}

func (s *captureService) Capture(ctx context.Context, req *dto.CaptureRequest) (*dto.CaptureResponse, error) {
	if (req.NoteId == nil) == (req.NewNote == nil) {
		return nil, fmt.Errorf("capture target: exactly one of note_id or new_note must be set")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Embeddings happen before the transaction opens; a slow or down model
	// must not hold a database transaction hostage. Failures degrade to
	// nil embeddings plus a repair message after commit.
	contentVec, contentEmbedErr := s.embedText(ctx, req.Text)

	var note *entity.Note
	var noteVec []float32
	var noteEmbedErr error
	noteCreated := false

	if req.NoteId != nil {
		existing, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: *req.NoteId})
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperr.NotFound("note", *req.NoteId)
		}
		note = existing
	} else {
		noteVec, noteEmbedErr = s.embedText(ctx, noteEmbedText(req.NewNote.Name, req.NewNote.Note))
		note = &entity.Note{
			Name:           req.NewNote.Name,
			Note:           req.NewNote.Note,
			Embedding:      noteVec,
			EmbeddingStale: noteEmbedErr != nil,
			CreatedAt:      time.Now(),
		}
		noteCreated = true
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	if noteCreated {
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	item := &entity.ContentItem{
		NoteId:     note.Id,
		Text:       req.Text,
		Url:        req.Url,
		FavIconUrl: req.FavIconUrl,
		Embedding:  contentVec,
		CreatedAt:  time.Now(),
	}
	if err := uow.ContentItemRepository().Create(ctx, item); err != nil {
		uow.Rollback()
		return nil, err
	}

	var reminder *entity.Reminder
	if req.Remind != nil {
		reminder = &entity.Reminder{
			NoteId:   note.Id,
			RemindAt: req.Remind.RemindAt,
		}
		if err := uow.ReminderRepository().Upsert(ctx, reminder); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Post-commit effects only: nothing below can undo the capture.
	if reminder != nil {
		s.scheduler.Cancel(note.Id)
		s.scheduler.Schedule(reminder)
	}
	if contentEmbedErr != nil {
		s.queueRepair(ctx, events.KindRepairContent, item.Id)
	}
	if noteEmbedErr != nil {
		s.queueRepair(ctx, events.KindRepairNote, note.Id)
	}
	s.views.Invalidate()

	resp := &dto.CaptureResponse{
		NoteId:      note.Id,
		ContentId:   item.Id,
		NoteCreated: noteCreated,
	}
	if reminder != nil {
		resp.Reminder = &dto.ReminderResponse{
			Id:       reminder.Id,
			NoteId:   reminder.NoteId,
			RemindAt: reminder.RemindAt,
			Reminded: reminder.Reminded,
		}
	}
	return resp, nil
}

func (s *captureService) embedText(ctx context.Context, text string) ([]float32, error) {
	result, err := s.embeddingProvider.Generate(ctx, text, embedding.TaskDocument)
	if err != nil {
		s.logger.Warn("CaptureService", "embedding failed, capture proceeds without vector", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return result.Values, nil
}

func (s *captureService) queueRepair(ctx context.Context, kind string, id int64) {
	payload, err := events.Marshal(events.RepairMessage{
		Kind:       kind,
		Id:         id,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("CaptureService", "failed to marshal repair message", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("CaptureService", "failed to publish repair message", map[string]interface{}{
			"id": id, "error": err.Error(),
		})
	}
}
