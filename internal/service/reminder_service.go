package service

import (
	"context"
	"time"

	"webnotes-be/internal/apperr"
	"webnotes-be/internal/dto"
	"webnotes-be/internal/entity"
	"webnotes-be/internal/repository/specification"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/internal/scheduler"
)

type IReminderService interface {
	// Upsert sets or replaces the note's single reminder. A replaced
	// reminder resets to pending regardless of whether the old one fired.
	Upsert(ctx context.Context, noteId int64, remindAt time.Time) (*dto.ReminderResponse, error)
	Clear(ctx context.Context, noteId int64) error
}

type reminderService struct {
	uowFactory unitofwork.RepositoryFactory
	scheduler  *scheduler.ReminderScheduler
	views      IViewService
}

func NewReminderService(
	uowFactory unitofwork.RepositoryFactory,
	reminderScheduler *scheduler.ReminderScheduler,
	views IViewService,
) IReminderService {
	return &reminderService{
		uowFactory: uowFactory,
		scheduler:  reminderScheduler,
		views:      views,
	}
}

func (s *reminderService) Upsert(ctx context.Context, noteId int64, remindAt time.Time) (*dto.ReminderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.NotFound("note", noteId)
	}

	reminder := &entity.Reminder{
		NoteId:   noteId,
		RemindAt: remindAt,
	}
	if err := uow.ReminderRepository().Upsert(ctx, reminder); err != nil {
		return nil, err
	}

	// Re-arm: the old trigger (if any) must never fire with the old time.
	s.scheduler.Cancel(noteId)
	s.scheduler.Schedule(reminder)
	s.views.Invalidate()

	return &dto.ReminderResponse{
		Id:       reminder.Id,
		NoteId:   reminder.NoteId,
		RemindAt: reminder.RemindAt,
		Reminded: reminder.Reminded,
	}, nil
}

// Clear cancels the trigger before deleting the row. A firing racing the
// delete loses the conditional mark and stays silent.
func (s *reminderService) Clear(ctx context.Context, noteId int64) error {
	s.scheduler.Cancel(noteId)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReminderRepository().DeleteByNoteId(ctx, noteId); err != nil {
		return err
	}

	s.views.Invalidate()
	return nil
}
