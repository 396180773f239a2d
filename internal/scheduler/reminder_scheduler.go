package scheduler

import (
	"context"
	"sync"
	"time"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/specification"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/pkg/events"
)

// Notifier receives fired reminders. The notification service implements it;
// the indirection keeps the scheduler free of delivery concerns.
type Notifier interface {
	NotifyReminderDue(ctx context.Context, event events.ReminderDueEvent)
}

// ReminderScheduler owns one in-process timer per pending reminder, keyed by
// note id (a note has at most one reminder). Firing is gated by a
// conditional mark in storage, so a stale timer racing a reschedule or a
// concurrent process collapses to a no-op instead of a duplicate
// notification.
type ReminderScheduler struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   Notifier
	logger     logger.ILogger

	mu     sync.Mutex
	timers map[int64]*time.Timer // note id -> pending trigger
}

func NewReminderScheduler(uowFactory unitofwork.RepositoryFactory, notifier Notifier, log logger.ILogger) *ReminderScheduler {
	return &ReminderScheduler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     log,
		timers:     make(map[int64]*time.Timer),
	}
}

// Schedule arms (or re-arms) the trigger for a pending reminder. A reminder
// whose time is already past gets no timer here; Reconcile owns past-due
// firing so restarts and live schedules go through the same gate.
func (s *ReminderScheduler) Schedule(reminder *entity.Reminder) {
	if reminder == nil || !reminder.Pending() {
		return
	}

	delay := time.Until(reminder.RemindAt)
	if delay <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[reminder.NoteId]; ok {
		existing.Stop()
	}

	reminderId := reminder.Id
	noteId := reminder.NoteId
	s.timers[noteId] = time.AfterFunc(delay, func() {
		s.fire(reminderId, noteId)
	})
}

// Cancel disarms the note's pending trigger. Call it before deleting the
// reminder row, so a firing that slips through still finds the row gone and
// the conditional mark fails closed.
func (s *ReminderScheduler) Cancel(noteId int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[noteId]; ok {
		timer.Stop()
		delete(s.timers, noteId)
	}
}

// Reconcile walks every pending reminder: past-due ones fire immediately
// (they were missed while the process was down), future ones get timers.
// Run once at startup.
func (s *ReminderScheduler) Reconcile(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pending, err := uow.ReminderRepository().FindAll(ctx, specification.Pending{})
	if err != nil {
		return err
	}

	now := time.Now()
	fired := 0
	for _, reminder := range pending {
		if reminder.RemindAt.After(now) {
			s.Schedule(reminder)
			continue
		}
		s.fire(reminder.Id, reminder.NoteId)
		fired++
	}

	s.logger.Info("ReminderScheduler", "reconciled pending reminders", map[string]interface{}{
		"pending":   len(pending),
		"past_due":  fired,
		"scheduled": len(pending) - fired,
	})
	return nil
}

// Stop disarms every timer. Used on shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for noteId, timer := range s.timers {
		timer.Stop()
		delete(s.timers, noteId)
	}
}

// fire attempts the exactly-once transition pending -> fired. Only the
// caller that wins the conditional update emits the notification.
func (s *ReminderScheduler) fire(reminderId, noteId int64) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.timers, noteId)
	s.mu.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	firedAt := time.Now()
	won, err := uow.ReminderRepository().MarkReminded(ctx, reminderId, firedAt)
	if err != nil {
		s.logger.Error("ReminderScheduler", "failed to mark reminder fired", map[string]interface{}{
			"reminder_id": reminderId,
			"error":       err.Error(),
		})
		return
	}
	if !won {
		// Already fired elsewhere, or the reminder was deleted under us.
		return
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		s.logger.Error("ReminderScheduler", "failed to load note for fired reminder", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return
	}

	noteName := "a note"
	if note != nil {
		noteName = note.Name
	}

	s.notifier.NotifyReminderDue(ctx, events.ReminderDueEvent{
		Kind:       events.KindReminderDue,
		ReminderId: reminderId,
		NoteId:     noteId,
		NoteName:   noteName,
		Message:    "Reminder: " + noteName,
		OccurredAt: firedAt,
	})
}
