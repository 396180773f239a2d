package mapper

import (
	"webnotes-be/internal/entity"
	"webnotes-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ContentItemMapper struct{}

func NewContentItemMapper() *ContentItemMapper {
	return &ContentItemMapper{}
}

func (m *ContentItemMapper) ToEntity(c *model.ContentItem) *entity.ContentItem {
	if c == nil {
		return nil
	}

	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}

	return &entity.ContentItem{
		Id:         c.Id,
		NoteId:     c.NoteId,
		Text:       c.Text,
		Url:        c.Url,
		FavIconUrl: c.FavIconUrl,
		Embedding:  embedding,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *ContentItemMapper) ToModel(c *entity.ContentItem) *model.ContentItem {
	if c == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if c.Embedding != nil {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	return &model.ContentItem{
		Id:         c.Id,
		NoteId:     c.NoteId,
		Text:       c.Text,
		Url:        c.Url,
		FavIconUrl: c.FavIconUrl,
		Embedding:  embedding,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *ContentItemMapper) ToEntities(items []*model.ContentItem) []*entity.ContentItem {
	entities := make([]*entity.ContentItem, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
