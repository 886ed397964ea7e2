package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type ChemicalRepository struct {
	db *gorm.DB
}

func NewChemicalRepository(db *gorm.DB) *ChemicalRepository {
	return &ChemicalRepository{db: db}
}

type chemicalRow struct {
	ID        uuid.UUID
	Chemical  string
	BatchNos  pq.StringArray `gorm:"type:text[]"`
	CreatedAt time.Time
}

func (row chemicalRow) toModel() model.Chemical {
	return model.Chemical{
		ID:        row.ID,
		Chemical:  row.Chemical,
		BatchNos:  []string(row.BatchNos),
		CreatedAt: row.CreatedAt,
	}
}

func (r *ChemicalRepository) List(ctx context.Context) ([]model.Chemical, error) {
	var rows []chemicalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, chemical, batch_nos, created_at
		FROM chemical_batch_nos
		ORDER BY chemical ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	chemicals := make([]model.Chemical, 0, len(rows))
	for _, row := range rows {
		chemicals = append(chemicals, row.toModel())
	}
	return chemicals, nil
}

func (r *ChemicalRepository) Create(ctx context.Context, name string) (*model.Chemical, error) {
	var row chemicalRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO chemical_batch_nos (chemical)
		VALUES (?)
		RETURNING id, chemical, batch_nos, created_at
	`, name).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	chemical := row.toModel()
	return &chemical, nil
}

func (r *ChemicalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chemical, error) {
	var row chemicalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, chemical, batch_nos, created_at
		FROM chemical_batch_nos WHERE id = ? LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	chemical := row.toModel()
	return &chemical, nil
}

// AddBatchNo adds a batch number to the set. Adding one that is already
// present leaves the row unchanged.
func (r *ChemicalRepository) AddBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error) {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE chemical_batch_nos
		SET batch_nos = array_append(batch_nos, ?)
		WHERE id = ? AND NOT (? = ANY(batch_nos))
	`, batchNo, id, batchNo).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ChemicalRepository) RemoveBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error) {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE chemical_batch_nos
		SET batch_nos = array_remove(batch_nos, ?)
		WHERE id = ?
	`, batchNo, id).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ChemicalRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM chemical_batch_nos WHERE id = ?
	`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
