package contract

import (
	"context"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/repository/specification"
)

// ScoredContentItem wraps a ContentItem with its similarity to a query vector.
type ScoredContentItem struct {
	Item       *entity.ContentItem
	Similarity float64
}

type ContentItemRepository interface {
	Create(ctx context.Context, item *entity.ContentItem) error
	Update(ctx context.Context, item *entity.ContentItem) error
	Delete(ctx context.Context, id int64) error
	DeleteByNoteId(ctx context.Context, noteId int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredContentItem, error)
}
