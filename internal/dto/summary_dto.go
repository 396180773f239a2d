package dto

type SummarizeRequest struct {
	Type   string `json:"type" validate:"omitempty,oneof=key-points tldr teaser headline"`
	Length string `json:"length" validate:"omitempty,oneof=short medium long"`
	Format string `json:"format" validate:"omitempty,oneof=plain-text markdown"`
}

type SummarizeResponse struct {
	NoteId  int64  `json:"note_id"`
	Summary string `json:"summary"`
}
