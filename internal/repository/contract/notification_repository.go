package contract

import (
	"context"

	"webnotes-be/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindRecent(ctx context.Context, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
