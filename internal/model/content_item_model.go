package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type ContentItem struct {
	Id         int64            `gorm:"primaryKey;autoIncrement"`
	NoteId     int64            `gorm:"not null;index;constraint:OnDelete:CASCADE"`
	Note       *Note            `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	Text       string           `gorm:"type:text;not null"`
	Url        string           `gorm:"type:text;not null"`
	FavIconUrl string           `gorm:"type:text"`
	Embedding  *pgvector.Vector `gorm:"type:vector(1024)"`
	CreatedAt  time.Time        `gorm:"autoCreateTime"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
