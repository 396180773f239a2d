package service

import (
	"context"
	"encoding/json"

	"webnotes-be/internal/model"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/internal/websocket"
	"webnotes-be/pkg/events"
)

type INotificationService interface {
	// NotifyReminderDue persists the notification and pushes it to connected
	// clients. Fire-and-forget: a delivery failure is logged, never
	// propagated back into the reminder transition that triggered it.
	NotifyReminderDue(ctx context.Context, event events.ReminderDueEvent)
	FindRecent(ctx context.Context, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, hub *websocket.Hub, log logger.ILogger) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		hub:        hub,
		logger:     log,
	}
}

func (s *notificationService) NotifyReminderDue(ctx context.Context, event events.ReminderDueEvent) {
	if err := event.Validate(); err != nil {
		s.logger.Error("NotificationService", "dropping malformed reminder event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"kind":        event.Kind,
		"note_id":     event.NoteId,
		"reminder_id": event.ReminderId,
	})

	notification := &model.Notification{
		Title:    "Reminder: " + event.NoteName,
		Message:  event.Message,
		Metadata: metadata,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		s.logger.Error("NotificationService", "failed to persist notification", map[string]interface{}{
			"note_id": event.NoteId,
			"error":   err.Error(),
		})
		// Still push live; history just has a gap.
	}

	if s.hub != nil {
		s.hub.Broadcast(*notification)
	}
}

func (s *notificationService) FindRecent(ctx context.Context, limit int) ([]*model.Notification, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindRecent(ctx, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkRead(ctx, id)
}
