package contract

import (
	"context"
	"time"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/repository/specification"
)

type ReminderRepository interface {
	// Upsert creates the note's reminder or replaces its trigger time. A
	// replaced reminder goes back to pending.
	Upsert(ctx context.Context, reminder *entity.Reminder) error
	DeleteByNoteId(ctx context.Context, noteId int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reminder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reminder, error)
	// MarkReminded sets the fired timestamp iff it is still null. Returns
	// false when the reminder was already fired (or no longer exists), which
	// is how double firing collapses to a no-op.
	MarkReminded(ctx context.Context, id int64, at time.Time) (bool, error)
}
