package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Note struct {
	Id             int64            `gorm:"primaryKey;autoIncrement"`
	Name           string           `gorm:"type:varchar(255);not null"`
	Note           string           `gorm:"type:text"`
	Embedding      *pgvector.Vector `gorm:"type:vector(1024)"`
	EmbeddingStale bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
}

func (Note) TableName() string {
	return "notes"
}
