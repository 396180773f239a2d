package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepairMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     RepairMessage
		wantErr bool
	}{
		{name: "valid note repair", msg: RepairMessage{Kind: KindRepairNote, Id: 1}, wantErr: false},
		{name: "valid content repair", msg: RepairMessage{Kind: KindRepairContent, Id: 7}, wantErr: false},
		{name: "unknown kind", msg: RepairMessage{Kind: "REPAIR_EVERYTHING", Id: 1}, wantErr: true},
		{name: "reminder kind is not a repair", msg: RepairMessage{Kind: KindReminderDue, Id: 1}, wantErr: true},
		{name: "zero id", msg: RepairMessage{Kind: KindRepairNote, Id: 0}, wantErr: true},
		{name: "negative id", msg: RepairMessage{Kind: KindRepairNote, Id: -3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReminderDueEventValidate(t *testing.T) {
	valid := ReminderDueEvent{
		Kind:       KindReminderDue,
		ReminderId: 1,
		NoteId:     2,
		NoteName:   "Trip ideas",
		OccurredAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	wrongKind := valid
	wrongKind.Kind = KindRepairNote
	assert.Error(t, wrongKind.Validate())

	missingIds := valid
	missingIds.ReminderId = 0
	assert.Error(t, missingIds.Validate())
}
