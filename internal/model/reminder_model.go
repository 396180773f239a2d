package model

import "time"

type Reminder struct {
	Id        int64      `gorm:"primaryKey;autoIncrement"`
	NoteId    int64      `gorm:"not null;uniqueIndex"` // at most one reminder per note
	Note      *Note      `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	RemindAt  time.Time  `gorm:"not null"`
	Reminded  *time.Time // null = pending
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Reminder) TableName() string {
	return "reminders"
}
