package mapper

import (
	"webnotes-be/internal/entity"
	"webnotes-be/internal/model"
)

type ReminderMapper struct{}

func NewReminderMapper() *ReminderMapper {
	return &ReminderMapper{}
}

func (m *ReminderMapper) ToEntity(r *model.Reminder) *entity.Reminder {
	if r == nil {
		return nil
	}
	return &entity.Reminder{
		Id:        r.Id,
		NoteId:    r.NoteId,
		RemindAt:  r.RemindAt,
		Reminded:  r.Reminded,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReminderMapper) ToModel(r *entity.Reminder) *model.Reminder {
	if r == nil {
		return nil
	}
	return &model.Reminder{
		Id:        r.Id,
		NoteId:    r.NoteId,
		RemindAt:  r.RemindAt,
		Reminded:  r.Reminded,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ReminderMapper) ToEntities(reminders []*model.Reminder) []*entity.Reminder {
	entities := make([]*entity.Reminder, len(reminders))
	for i, r := range reminders {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
