package contract

import (
	"context"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/repository/specification"
)

// ScoredNote wraps a Note with its similarity to a query vector.
type ScoredNote struct {
	Note       *entity.Note
	Similarity float64 // 1 - cosine distance, higher is more similar
}

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the closest notes by embedding, ordered
	// by descending similarity. Rows without a usable embedding (missing or
	// stale) are never returned.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredNote, error)
}
