package unitofwork

import (
	"context"

	"webnotes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	ContentItemRepository() contract.ContentItemRepository
	ReminderRepository() contract.ReminderRepository
	NotificationRepository() contract.NotificationRepository
}
