package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type QuoteInfoRepository struct {
	db *gorm.DB
}

func NewQuoteInfoRepository(db *gorm.DB) *QuoteInfoRepository {
	return &QuoteInfoRepository{db: db}
}

func (r *QuoteInfoRepository) Insert(ctx context.Context, input model.QuoteInfoInput) (*model.QuoteInfo, error) {
	var row quoteInfoRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO quote_infos (
			chemical, work_area, work_area_unit,
			service_rate, service_rate_unit, packaging, batch_nos
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, chemical, work_area, work_area_unit,
			service_rate, service_rate_unit, packaging, batch_nos,
			created_at, updated_at
	`,
		input.Chemical,
		input.WorkArea,
		input.WorkAreaUnit,
		input.ServiceRate,
		input.ServiceRateUnit,
		input.Packaging,
		pq.StringArray(input.BatchNos),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	info := row.toModel()
	return &info, nil
}

func (r *QuoteInfoRepository) Update(ctx context.Context, input model.QuoteInfoInput) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quote_infos SET
			chemical = ?,
			work_area = ?,
			work_area_unit = ?,
			service_rate = ?,
			service_rate_unit = ?,
			packaging = ?,
			batch_nos = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		input.Chemical,
		input.WorkArea,
		input.WorkAreaUnit,
		input.ServiceRate,
		input.ServiceRateUnit,
		input.Packaging,
		pq.StringArray(input.BatchNos),
		input.ID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *QuoteInfoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuoteInfo, error) {
	var row quoteInfoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, chemical, work_area, work_area_unit,
			service_rate, service_rate_unit, packaging, batch_nos,
			created_at, updated_at
		FROM quote_infos WHERE id = ? LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	info := row.toModel()
	return &info, nil
}

// DeleteMany hard-deletes orphaned line items. Only called for unapproved
// documents; approved documents keep their removed items for the archive.
func (r *QuoteInfoRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM quote_infos WHERE id = ANY(?::uuid[])
	`, idArray(ids)).Error
}

// Clone copies line items into fresh rows, used when a quotation is
// contractified so the contract owns its own copies.
func (r *QuoteInfoRepository) Clone(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	cloned := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		var newID uuid.UUID
		err := r.db.WithContext(ctx).Raw(`
			INSERT INTO quote_infos (
				chemical, work_area, work_area_unit,
				service_rate, service_rate_unit, packaging, batch_nos
			)
			SELECT chemical, work_area, work_area_unit,
				service_rate, service_rate_unit, packaging, batch_nos
			FROM quote_infos WHERE id = ?
			RETURNING id
		`, id).Scan(&newID).Error
		if err != nil {
			return nil, err
		}
		cloned = append(cloned, newID)
	}
	return cloned, nil
}

func idArray(ids []uuid.UUID) pq.StringArray {
	values := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}
