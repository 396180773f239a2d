package entity

import "time"

type ContentItem struct {
	Id         int64
	NoteId     int64
	Text       string
	Url        string
	FavIconUrl string
	Embedding  []float32
	CreatedAt  time.Time
}
