package migration

import (
	"time"

	"webnotes-be/internal/apperr"

	"gorm.io/gorm"
)

// Batch is one versioned migration: an opaque id plus the statements that
// must apply together. A batch either lands completely (statements plus its
// schema_migrations record, in one transaction) or not at all.
type Batch struct {
	ID         string
	Statements []string
}

type appliedMigration struct {
	ID        string    `gorm:"primaryKey;type:varchar(128)"`
	AppliedAt time.Time `gorm:"not null"`
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

// Run applies every not-yet-applied batch in order. Safe to run on every
// startup; a second run over the same store is a no-op.
func Run(db *gorm.DB) error {
	applied, err := loadApplied(db)
	if err != nil {
		return apperr.StoreUnavailable(err)
	}

	for _, batch := range Batches {
		if applied[batch.ID] {
			continue
		}
		if err := applyBatch(db, batch); err != nil {
			return apperr.StoreUnavailable(err)
		}
	}
	return nil
}

func loadApplied(db *gorm.DB) (map[string]bool, error) {
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(128) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL
	)`).Error; err != nil {
		return nil, err
	}

	var rows []appliedMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		applied[row.ID] = true
	}
	return applied, nil
}

func applyBatch(db *gorm.DB, batch Batch) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range batch.Statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return tx.Create(&appliedMigration{ID: batch.ID, AppliedAt: time.Now()}).Error
	})
}
