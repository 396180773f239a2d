package entity

import "time"

type Reminder struct {
	Id        int64
	NoteId    int64
	RemindAt  time.Time
	Reminded  *time.Time // nil = pending, non-nil = fired (set exactly once)
	CreatedAt time.Time
}

func (r *Reminder) Pending() bool {
	return r.Reminded == nil
}
