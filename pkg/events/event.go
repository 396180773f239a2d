package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds carried on the in-process bus. Each kind has exactly one
// payload shape; consumers reject anything else at the boundary instead of
// poking at loosely typed maps.
const (
	KindRepairNote    = "REPAIR_NOTE"
	KindRepairContent = "REPAIR_CONTENT"
	KindReminderDue   = "REMINDER_DUE"
)

// RepairMessage asks the embedding repair worker to recompute one row's
// embedding. Kind selects the table.
type RepairMessage struct {
	Kind       string    `json:"kind"`
	Id         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (m RepairMessage) Validate() error {
	if m.Kind != KindRepairNote && m.Kind != KindRepairContent {
		return fmt.Errorf("unknown repair kind %q", m.Kind)
	}
	if m.Id <= 0 {
		return fmt.Errorf("invalid repair target id %d", m.Id)
	}
	return nil
}

// ReminderDueEvent announces a fired reminder to the notification side.
type ReminderDueEvent struct {
	Kind       string    `json:"kind"`
	ReminderId int64     `json:"reminder_id"`
	NoteId     int64     `json:"note_id"`
	NoteName   string    `json:"note_name"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ReminderDueEvent) Validate() error {
	if e.Kind != KindReminderDue {
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ReminderId <= 0 || e.NoteId <= 0 {
		return fmt.Errorf("invalid reminder event ids (%d, %d)", e.ReminderId, e.NoteId)
	}
	return nil
}

func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
