package mapper

import (
	"webnotes-be/internal/entity"
	"webnotes-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var embedding []float32
	if n.Embedding != nil {
		embedding = n.Embedding.Slice()
	}

	return &entity.Note{
		Id:             n.Id,
		Name:           n.Name,
		Note:           n.Note,
		Embedding:      embedding,
		EmbeddingStale: n.EmbeddingStale,
		CreatedAt:      n.CreatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if n.Embedding != nil {
		v := pgvector.NewVector(n.Embedding)
		embedding = &v
	}

	return &model.Note{
		Id:             n.Id,
		Name:           n.Name,
		Note:           n.Note,
		Embedding:      embedding,
		EmbeddingStale: n.EmbeddingStale,
		CreatedAt:      n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
