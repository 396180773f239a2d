package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification stores the history of user-visible notifications (fired
// reminders). The live push happens over the websocket hub; this table is
// what the UI lists after the fact.
type Notification struct {
	Id        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
