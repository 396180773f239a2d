package dto

import "time"

type SaveNoteRequest struct {
	Name string `json:"name" validate:"required,max=500"`
	Note string `json:"note" validate:"max=100000"`
}

type NoteResponse struct {
	Id             int64     `json:"id"`
	Name           string    `json:"name"`
	Note           string    `json:"note"`
	EmbeddingStale bool      `json:"embedding_stale"`
	CreatedAt      time.Time `json:"created_at"`
}

type ContentItemResponse struct {
	Id         int64     `json:"id"`
	NoteId     int64     `json:"note_id"`
	Text       string    `json:"text"`
	Url        string    `json:"url"`
	FavIconUrl string    `json:"fav_icon_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReminderResponse struct {
	Id       int64      `json:"id"`
	NoteId   int64      `json:"note_id"`
	RemindAt time.Time  `json:"remind_at"`
	Reminded *time.Time `json:"reminded,omitempty"`
}

// NoteViewResponse is the aggregated row the list endpoints return: the note
// with its content items in creation order and its reminder, if any.
type NoteViewResponse struct {
	NoteResponse
	Contents []ContentItemResponse `json:"contents"`
	Reminder *ReminderResponse     `json:"reminder,omitempty"`

	// Similarity is populated on semantic search responses only.
	Similarity *float64 `json:"similarity,omitempty"`
}

type SearchNotesRequest struct {
	Query string `query:"q"`
	Mode  string `query:"mode" validate:"omitempty,oneof=substring semantic"`
}
