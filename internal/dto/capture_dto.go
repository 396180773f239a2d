package dto

import "time"

// CaptureRequest is what the browser-side clipper sends: a selected snippet,
// its source page, and where to file it. Exactly one of NoteId / NewNote
// must be set.
type CaptureRequest struct {
	Text       string `json:"text" validate:"required"`
	Url        string `json:"url" validate:"required,url"`
	FavIconUrl string `json:"fav_icon_url" validate:"omitempty,url"`

	NoteId  *int64              `json:"note_id" validate:"omitempty,gt=0"`
	NewNote *CaptureNewNote     `json:"new_note"`
	Remind  *CaptureReminderOpt `json:"remind"`
}

type CaptureNewNote struct {
	Name string `json:"name" validate:"required,max=500"`
	Note string `json:"note" validate:"max=100000"`
}

type CaptureReminderOpt struct {
	RemindAt time.Time `json:"remind_at" validate:"required"`
}

type CaptureResponse struct {
	NoteId      int64             `json:"note_id"`
	ContentId   int64             `json:"content_id"`
	NoteCreated bool              `json:"note_created"`
	Reminder    *ReminderResponse `json:"reminder,omitempty"`
}
