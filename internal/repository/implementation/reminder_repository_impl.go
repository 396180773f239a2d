package implementation

import (
	"context"
	"errors"
	"time"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/mapper"
	"webnotes-be/internal/model"
	"webnotes-be/internal/repository/contract"
	"webnotes-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReminderMapper
}

func NewReminderRepository(db *gorm.DB) contract.ReminderRepository {
	return &ReminderRepositoryImpl{
		db:     db,
		mapper: mapper.NewReminderMapper(),
	}
}

func (r *ReminderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReminderRepositoryImpl) Upsert(ctx context.Context, reminder *entity.Reminder) error {
	m := r.mapper.ToModel(reminder)
	// note_id is unique: replacing the trigger time also resets the fired
	// marker, so a rescheduled reminder is pending again.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"remind_at": m.RemindAt, "reminded": nil}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// Re-read: on conflict the insert does not report the surviving row.
	var saved model.Reminder
	if err := r.db.WithContext(ctx).Where("note_id = ?", m.NoteId).First(&saved).Error; err != nil {
		return err
	}
	*reminder = *r.mapper.ToEntity(&saved)
	return nil
}

func (r *ReminderRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId int64) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.Reminder{}).Error
}

func (r *ReminderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reminder, error) {
	var m model.Reminder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ReminderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reminder, error) {
	var models []*model.Reminder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ReminderRepositoryImpl) MarkReminded(ctx context.Context, id int64, at time.Time) (bool, error) {
	// Conditional update is the exactly-once guard: a second firing sees
	// zero affected rows and no-ops.
	res := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ? AND reminded IS NULL", id).
		Update("reminded", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
