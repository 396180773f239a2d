package implementation

import (
	"context"
	"errors"

	"webnotes-be/internal/entity"
	"webnotes-be/internal/mapper"
	"webnotes-be/internal/model"
	"webnotes-be/internal/repository/contract"
	"webnotes-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ContentItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentItemMapper
}

func NewContentItemRepository(db *gorm.DB) contract.ContentItemRepository {
	return &ContentItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentItemMapper(),
	}
}

func (r *ContentItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContentItemRepositoryImpl) Create(ctx context.Context, item *entity.ContentItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentItemRepositoryImpl) Update(ctx context.Context, item *entity.ContentItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentItemRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ContentItem{}, id).Error
}

func (r *ContentItemRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId int64) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.ContentItem{}).Error
}

func (r *ContentItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentItem, error) {
	var m model.ContentItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentItem, error) {
	var models []*model.ContentItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	// Creation order is part of the aggregation contract.
	if err := query.Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContentItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ContentItem{}).Count(&count).Error
	return count, err
}

func (r *ContentItemRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredContentItem, error) {
	if limit <= 0 {
		limit = 50
	}

	type result struct {
		model.ContentItem
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("content_items").
		Select("content_items.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("embedding IS NOT NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredContentItem, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredContentItem{
			Item:       r.mapper.ToEntity(&res.ContentItem),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
