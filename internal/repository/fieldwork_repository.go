package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

// FieldworkRepository stores the append-only field records hung off a
// contract: work logs and delivery challans.
type FieldworkRepository struct {
	db *gorm.DB
}

func NewFieldworkRepository(db *gorm.DB) *FieldworkRepository {
	return &FieldworkRepository{db: db}
}

type workLogRow struct {
	ID              uuid.UUID
	ContractID      uuid.UUID
	WorkAreaType    string
	Chemical        string
	ChemicalUsed    string
	AreaTreated     string
	AreaTreatedUnit string
	Remark          string
	EntryBy         uuid.UUID
	CreatedAt       time.Time
}

func (r *FieldworkRepository) AddWorkLog(ctx context.Context, log model.WorkLog) (*model.WorkLog, error) {
	var row workLogRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO work_logs (
			contract_id, work_area_type, chemical, chemical_used,
			area_treated, area_treated_unit, remark, entry_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, contract_id, work_area_type, chemical, chemical_used,
			area_treated, area_treated_unit, remark, entry_by, created_at
	`,
		log.ContractID,
		log.WorkAreaType,
		log.Chemical,
		log.ChemicalUsed,
		log.AreaTreated,
		log.AreaTreatedUnit,
		log.Remark,
		log.EntryByID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	saved := workLogToModel(row)
	saved.EntryBy, err = getUserRef(r.db.WithContext(ctx), row.EntryBy)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *FieldworkRepository) ListWorkLogs(ctx context.Context, contractID uuid.UUID) ([]model.WorkLog, error) {
	var rows []workLogRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, work_area_type, chemical, chemical_used,
			area_treated, area_treated_unit, remark, entry_by, created_at
		FROM work_logs
		WHERE contract_id = ?
		ORDER BY created_at ASC
	`, contractID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	logs := make([]model.WorkLog, 0, len(rows))
	for _, row := range rows {
		log := workLogToModel(row)
		log.EntryBy, err = getUserRef(r.db.WithContext(ctx), row.EntryBy)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func workLogToModel(row workLogRow) model.WorkLog {
	return model.WorkLog{
		ID:              row.ID,
		ContractID:      row.ContractID,
		WorkAreaType:    row.WorkAreaType,
		Chemical:        row.Chemical,
		ChemicalUsed:    row.ChemicalUsed,
		AreaTreated:     row.AreaTreated,
		AreaTreatedUnit: row.AreaTreatedUnit,
		Remark:          row.Remark,
		EntryByID:       row.EntryBy,
		CreatedAt:       row.CreatedAt,
	}
}

type dcRow struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Chemical    string
	BatchNumber string
	ChemicalQty string
	Packaging   string
	EntryBy     uuid.UUID
	CreatedAt   time.Time
}

func (r *FieldworkRepository) AddDC(ctx context.Context, dc model.DC) (*model.DC, error) {
	var row dcRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO dcs (
			contract_id, chemical, batch_number, chemical_qty, packaging, entry_by
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, contract_id, chemical, batch_number, chemical_qty,
			packaging, entry_by, created_at
	`,
		dc.ContractID,
		dc.Chemical,
		dc.BatchNumber,
		dc.ChemicalQty,
		dc.Packaging,
		dc.EntryByID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	saved := dcToModel(row)
	saved.EntryBy, err = getUserRef(r.db.WithContext(ctx), row.EntryBy)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *FieldworkRepository) ListDCs(ctx context.Context, contractID uuid.UUID) ([]model.DC, error) {
	var rows []dcRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, chemical, batch_number, chemical_qty,
			packaging, entry_by, created_at
		FROM dcs
		WHERE contract_id = ?
		ORDER BY created_at ASC
	`, contractID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dcs := make([]model.DC, 0, len(rows))
	for _, row := range rows {
		dc := dcToModel(row)
		dc.EntryBy, err = getUserRef(r.db.WithContext(ctx), row.EntryBy)
		if err != nil {
			return nil, err
		}
		dcs = append(dcs, dc)
	}
	return dcs, nil
}

func dcToModel(row dcRow) model.DC {
	return model.DC{
		ID:          row.ID,
		ContractID:  row.ContractID,
		Chemical:    row.Chemical,
		BatchNumber: row.BatchNumber,
		ChemicalQty: row.ChemicalQty,
		Packaging:   row.Packaging,
		EntryByID:   row.EntryBy,
		CreatedAt:   row.CreatedAt,
	}
}
