package dto

import "time"

type UpsertReminderRequest struct {
	RemindAt time.Time `json:"remind_at" validate:"required"`
}

type NotificationResponse struct {
	Id        int64                  `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}
