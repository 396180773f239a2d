package specification

import (
	"time"

	"gorm.io/gorm"
)

// Pending selects reminders that have not fired yet.
type Pending struct{}

func (s Pending) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reminded IS NULL")
}

// DueBefore selects reminders whose trigger time has passed.
type DueBefore struct {
	At time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("remind_at <= ?", s.At)
}
