package specification

import "gorm.io/gorm"

// ByNoteID filters child rows (content items, reminders) by owning note
type ByNoteID struct {
	NoteID int64
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

// NameContains is the substring-mode filter: case-insensitive containment
// on the note name only.
type NameContains struct {
	Query string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Query+"%")
}

// NeedsEmbedding selects notes whose embedding is missing or flagged stale,
// i.e. the rows the repair worker should process.
type NeedsEmbedding struct{}

func (s NeedsEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL OR embedding_stale")
}

// MissingEmbedding selects content items saved without a vector. Content
// rows have no stale flag: their text is immutable, so a vector is either
// present and correct or absent.
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL")
}
