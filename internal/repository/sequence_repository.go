package repository

import (
	"context"

	"gorm.io/gorm"
)

// SequenceRepository hands out the human-readable document numbers. Each
// (doc type, year) pair counts up from 1; numbers are monotonic and never
// reused because the increment happens in a single upsert.
type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) Next(ctx context.Context, docType string, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (doc_type, year, seq)
		VALUES (?, ?, 1)
		ON CONFLICT (doc_type, year) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`, docType, year).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
