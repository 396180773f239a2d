package service

import (
	"context"
	"sync"
	"time"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/model"
	"webnotes-be/internal/repository/contract"
	"webnotes-be/internal/repository/specification"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/pkg/embedding"
)

// In-memory repository fakes. They interpret the specification structs the
// real GORM implementations receive, so services are exercised through the
// same call shapes.

type fakeNoteRepository struct {
	mu           sync.Mutex
	notes        []*entity.Note
	nextId       int64
	findAllCalls int

	scored    []*contract.ScoredNote
	searchErr error
}

func (r *fakeNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextId++
	note.Id = r.nextId
	clone := *note
	r.notes = append(r.notes, &clone)
	return nil
}

func (r *fakeNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.notes {
		if existing.Id == note.Id {
			clone := *note
			r.notes[i] = &clone
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.notes {
		if existing.Id == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			for _, note := range r.notes {
				if note.Id == byId.ID {
					clone := *note
					return &clone, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findAllCalls++
	needsEmbedding := false
	for _, spec := range specs {
		if _, ok := spec.(specification.NeedsEmbedding); ok {
			needsEmbedding = true
		}
	}
	out := make([]*entity.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if needsEmbedding && note.Embedding != nil && !note.EmbeddingStale {
			continue
		}
		clone := *note
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeNoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notes)), nil
}

func (r *fakeNoteRepository) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*contract.ScoredNote, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	if len(r.scored) > limit {
		return r.scored[:limit], nil
	}
	return r.scored, nil
}

type fakeContentItemRepository struct {
	mu     sync.Mutex
	items  []*entity.ContentItem
	nextId int64

	scored    []*contract.ScoredContentItem
	searchErr error
}

func (r *fakeContentItemRepository) Create(ctx context.Context, item *entity.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextId++
	item.Id = r.nextId
	clone := *item
	r.items = append(r.items, &clone)
	return nil
}

func (r *fakeContentItemRepository) Update(ctx context.Context, item *entity.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.Id == item.Id {
			clone := *item
			r.items[i] = &clone
			return nil
		}
	}
	return nil
}

func (r *fakeContentItemRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.Id == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeContentItemRepository) DeleteByNoteId(ctx context.Context, noteId int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.NoteId != noteId {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeContentItemRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			for _, item := range r.items {
				if item.Id == byId.ID {
					clone := *item
					return &clone, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeContentItemRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	missingOnly := false
	for _, spec := range specs {
		if _, ok := spec.(specification.MissingEmbedding); ok {
			missingOnly = true
		}
	}
	out := make([]*entity.ContentItem, 0, len(r.items))
	for _, item := range r.items {
		if missingOnly && item.Embedding != nil {
			continue
		}
		clone := *item
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeContentItemRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *fakeContentItemRepository) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*contract.ScoredContentItem, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	if len(r.scored) > limit {
		return r.scored[:limit], nil
	}
	return r.scored, nil
}

type fakeReminderRepository struct {
	mu        sync.Mutex
	reminders []*entity.Reminder
	nextId    int64
}

func (r *fakeReminderRepository) Upsert(ctx context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.reminders {
		if existing.NoteId == reminder.NoteId {
			reminder.Id = existing.Id
			reminder.Reminded = nil
			clone := *reminder
			r.reminders[i] = &clone
			return nil
		}
	}
	r.nextId++
	reminder.Id = r.nextId
	clone := *reminder
	r.reminders = append(r.reminders, &clone)
	return nil
}

func (r *fakeReminderRepository) DeleteByNoteId(ctx context.Context, noteId int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.reminders[:0]
	for _, reminder := range r.reminders {
		if reminder.NoteId != noteId {
			kept = append(kept, reminder)
		}
	}
	r.reminders = kept
	return nil
}

func (r *fakeReminderRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			for _, reminder := range r.reminders {
				if reminder.Id == s.ID {
					clone := *reminder
					return &clone, nil
				}
			}
		case specification.ByNoteID:
			for _, reminder := range r.reminders {
				if reminder.NoteId == s.NoteID {
					clone := *reminder
					return &clone, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeReminderRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pendingOnly := false
	for _, spec := range specs {
		if _, ok := spec.(specification.Pending); ok {
			pendingOnly = true
		}
	}
	out := make([]*entity.Reminder, 0, len(r.reminders))
	for _, reminder := range r.reminders {
		if pendingOnly && reminder.Reminded != nil {
			continue
		}
		clone := *reminder
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeReminderRepository) MarkReminded(ctx context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reminder := range r.reminders {
		if reminder.Id == id && reminder.Reminded == nil {
			firedAt := at
			reminder.Reminded = &firedAt
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationRepository struct {
	mu            sync.Mutex
	notifications []*model.Notification
	nextId        int64
}

func (r *fakeNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextId++
	notification.Id = r.nextId
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepository) FindRecent(ctx context.Context, limit int) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Notification, 0, len(r.notifications))
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *r.notifications[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.Id == id {
			notification.IsRead = true
		}
	}
	return nil
}

type fakeUnitOfWork struct {
	notes         *fakeNoteRepository
	contents      *fakeContentItemRepository
	reminders     *fakeReminderRepository
	notifications *fakeNotificationRepository

	begins    int
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begins++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository {
	return u.notes
}
func (u *fakeUnitOfWork) ContentItemRepository() contract.ContentItemRepository {
	return u.contents
}
func (u *fakeUnitOfWork) ReminderRepository() contract.ReminderRepository {
	return u.reminders
}
func (u *fakeUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return u.notifications
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		uow: &fakeUnitOfWork{
			notes:         &fakeNoteRepository{},
			contents:      &fakeContentItemRepository{},
			reminders:     &fakeReminderRepository{},
			notifications: &fakeNotificationRepository{},
		},
	}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbedder struct {
	mu       sync.Mutex
	requests []string
	taskType []string
	err      error
	vector   []float32
}

func (e *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, text)
	e.taskType = append(e.taskType, taskType)
	if e.err != nil {
		return nil, e.err
	}
	vec := e.vector
	if vec == nil {
		vec = make([]float32, embedding.Dimension)
		vec[0] = 1
	}
	return &embedding.Result{Values: vec}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
