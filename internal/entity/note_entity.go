package entity

import "time"

type Note struct {
	Id             int64
	Name           string
	Note           string
	Embedding      []float32 // nil until the first successful embed
	EmbeddingStale bool
	CreatedAt      time.Time
}
