package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

// RevisionRepository is the append-only archive of document snapshots.
// Rows are never updated or deleted.
type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) Record(ctx context.Context, revision model.Revision) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO revisions (doc_type, doc_id, snapshot, author_id, message, modified_fields)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(revision.DocType),
		revision.DocID,
		string(revision.Snapshot),
		revision.AuthorID,
		revision.Message,
		pq.StringArray(revision.ModifiedFields),
	).Error
}

type revisionRow struct {
	ID             uuid.UUID
	DocType        string
	DocID          uuid.UUID
	Snapshot       []byte
	AuthorID       uuid.UUID
	Message        string
	ModifiedFields pq.StringArray `gorm:"type:text[]"`
	CreatedAt      time.Time
}

func (r *RevisionRepository) ListByDoc(ctx context.Context, docType model.RevisionDoc, docID uuid.UUID) ([]model.Revision, error) {
	var rows []revisionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, doc_type, doc_id, snapshot, author_id, message, modified_fields, created_at
		FROM revisions
		WHERE doc_type = ? AND doc_id = ?
		ORDER BY created_at ASC
	`, string(docType), docID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revisions := make([]model.Revision, 0, len(rows))
	for _, row := range rows {
		author, err := getUserRef(r.db.WithContext(ctx), row.AuthorID)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, model.Revision{
			ID:             row.ID,
			DocType:        model.RevisionDoc(row.DocType),
			DocID:          row.DocID,
			Snapshot:       row.Snapshot,
			AuthorID:       row.AuthorID,
			Message:        row.Message,
			ModifiedFields: []string(row.ModifiedFields),
			CreatedAt:      row.CreatedAt,
			Author:         author,
		})
	}
	return revisions, nil
}
