package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID            uuid.UUID
	QuotationID   *uuid.UUID
	ContractNo    *string
	DocType       string
	ContractDate  time.Time
	SalesPersonID uuid.UUID
	BillTo        []byte
	ShipTo        []byte
	EmailTo       pq.StringArray `gorm:"type:text[]"`
	Note          string
	WorkOrderNo   string
	WorkOrderDate *time.Time
	GstNo         string
	PaymentTerms  string
	Approved      bool
	PrintCount    int
	Version       int64
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const contractColumns = `
	id, quotation_id, contract_no, doc_type, contract_date, sales_person_id,
	bill_to, ship_to, email_to, note, work_order_no, work_order_date,
	gst_no, payment_terms, approved, print_count, version,
	created_by, created_at, updated_at
`

func (row contractRow) toModel() (model.Contract, error) {
	contract := model.Contract{
		ID:            row.ID,
		QuotationID:   row.QuotationID,
		ContractNo:    row.ContractNo,
		DocType:       model.DocType(row.DocType),
		ContractDate:  row.ContractDate,
		SalesPersonID: row.SalesPersonID,
		EmailTo:       []string(row.EmailTo),
		Note:          row.Note,
		WorkOrderNo:   row.WorkOrderNo,
		WorkOrderDate: row.WorkOrderDate,
		GSTNo:         row.GstNo,
		PaymentTerms:  row.PaymentTerms,
		Approved:      row.Approved,
		PrintCount:    row.PrintCount,
		Version:       row.Version,
		CreatedByID:   row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.BillTo) > 0 {
		if err := json.Unmarshal(row.BillTo, &contract.BillToAddress); err != nil {
			return contract, fmt.Errorf("decode bill_to: %w", err)
		}
	}
	if len(row.ShipTo) > 0 {
		if err := json.Unmarshal(row.ShipTo, &contract.ShipToAddress); err != nil {
			return contract, fmt.Errorf("decode ship_to: %w", err)
		}
	}
	return contract, nil
}

func (r *ContractRepository) Create(ctx context.Context, contract model.Contract, quoteInfoIDs []uuid.UUID) (*model.Contract, error) {
	billTo, err := json.Marshal(contract.BillToAddress)
	if err != nil {
		return nil, err
	}
	shipTo, err := json.Marshal(contract.ShipToAddress)
	if err != nil {
		return nil, err
	}

	var saved contractRow
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO contracts (
				quotation_id, doc_type, contract_date, sales_person_id,
				bill_to, ship_to, email_to, note, work_order_no, work_order_date,
				gst_no, payment_terms, created_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+contractColumns,
			contract.QuotationID,
			string(contract.DocType),
			contract.ContractDate,
			contract.SalesPersonID,
			string(billTo),
			string(shipTo),
			pq.StringArray(contract.EmailTo),
			contract.Note,
			contract.WorkOrderNo,
			contract.WorkOrderDate,
			contract.GSTNo,
			contract.PaymentTerms,
			contract.CreatedByID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		return replaceQuoteInfoLinks(tx, "contract_quote_infos", "contract_id", saved.ID, quoteInfoIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, saved.ID)
}

// GetByID returns the contract with quote infos and author/sales references
// resolved.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+` FROM contracts WHERE id = ? LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	contract, err := row.toModel()
	if err != nil {
		return nil, err
	}

	contract.QuoteInfos, err = listQuoteInfosFor(r.db.WithContext(ctx), "contract_quote_infos", "contract_id", id)
	if err != nil {
		return nil, err
	}
	contract.SalesPerson, err = getUserRef(r.db.WithContext(ctx), contract.SalesPersonID)
	if err != nil {
		return nil, err
	}
	contract.CreatedBy, err = getUserRef(r.db.WithContext(ctx), contract.CreatedByID)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

type ContractFilter struct {
	CreatedBy   *uuid.UUID
	ProjectName string
	ClientName  string
	ContractNo  string
	FromDate    *time.Time
	ToDate      *time.Time
	Approved    *bool
	StartIndex  int
	Limit       int
	Order       string // "asc" or "desc" by updated_at
}

type ContractCounts struct {
	Total          int64
	Today          int64
	ApprovedCount  int64
	ApprovePending int64
}

func (r *ContractRepository) List(ctx context.Context, filter ContractFilter) ([]model.Contract, error) {
	baseQuery := `SELECT ` + contractColumns + ` FROM contracts WHERE 1=1`
	var args []interface{}

	if filter.CreatedBy != nil {
		baseQuery += " AND created_by = ?"
		args = append(args, *filter.CreatedBy)
	}
	if filter.ProjectName != "" {
		baseQuery += " AND ship_to->>'projectName' ILIKE ?"
		args = append(args, "%"+filter.ProjectName+"%")
	}
	if filter.ClientName != "" {
		baseQuery += " AND bill_to->>'name' ILIKE ?"
		args = append(args, "%"+filter.ClientName+"%")
	}
	if filter.ContractNo != "" {
		baseQuery += " AND contract_no ILIKE ?"
		args = append(args, "%"+filter.ContractNo+"%")
	}
	if filter.Approved != nil {
		baseQuery += " AND approved = ?"
		args = append(args, *filter.Approved)
	}
	if filter.FromDate != nil {
		baseQuery += " AND contract_date >= ?"
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		baseQuery += " AND contract_date <= ?"
		args = append(args, endOfDay(*filter.ToDate))
	}

	direction := "DESC"
	if filter.Order == "asc" {
		direction = "ASC"
	}
	baseQuery += " ORDER BY updated_at " + direction

	limit := filter.Limit
	if limit <= 0 {
		limit = 9
	}
	baseQuery += " OFFSET ? LIMIT ?"
	args = append(args, filter.StartIndex, limit)

	var rows []contractRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contract, err := row.toModel()
		if err != nil {
			return nil, err
		}
		contract.CreatedBy, err = getUserRef(r.db.WithContext(ctx), contract.CreatedByID)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

func (r *ContractRepository) Counts(ctx context.Context) (ContractCounts, error) {
	var counts ContractCounts
	startOfDay := time.Now().Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= ?) AS today,
			COUNT(*) FILTER (WHERE approved) AS approved_count,
			COUNT(*) FILTER (WHERE NOT approved) AS approve_pending
		FROM contracts
	`, startOfDay).Scan(&counts).Error
	return counts, err
}

// UpdateFields overwrites the mutable scalar fields, guarded by the version
// token. Returns false when no row matched id+version.
func (r *ContractRepository) UpdateFields(ctx context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error) {
	billTo, err := json.Marshal(update.BillToAddress)
	if err != nil {
		return false, err
	}
	shipTo, err := json.Marshal(update.ShipToAddress)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE contracts SET
			contract_date = ?,
			sales_person_id = ?,
			bill_to = ?,
			ship_to = ?,
			email_to = ?,
			note = ?,
			work_order_no = ?,
			work_order_date = ?,
			gst_no = ?,
			payment_terms = ?,
			version = version + 1,
			updated_at = NOW()
		WHERE id = ? AND version = ?
	`,
		update.ContractDate,
		update.SalesPersonID,
		string(billTo),
		string(shipTo),
		pq.StringArray(update.EmailTo),
		update.Note,
		update.WorkOrderNo,
		update.WorkOrderDate,
		update.GSTNo,
		update.PaymentTerms,
		id,
		baseVersion,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ContractRepository) SetQuoteInfoIDs(ctx context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceQuoteInfoLinks(tx, "contract_quote_infos", "contract_id", id, quoteInfoIDs)
	})
}

// SetApproved marks the one-way draft -> approved transition and stamps the
// assigned number. An already-approved row never matches, so a racing second
// approval cannot overwrite the number.
func (r *ContractRepository) SetApproved(ctx context.Context, id uuid.UUID, contractNo string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET approved = TRUE, contract_no = ?, version = version + 1, updated_at = NOW()
		WHERE id = ? AND approved = FALSE
	`, contractNo, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) IncPrintCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts SET print_count = print_count + 1 WHERE id = ?
	`, id).Error
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM contracts WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ContractRepository) ListAllPopulated(ctx context.Context) ([]model.Contract, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id FROM contracts ORDER BY contract_date ASC
	`).Scan(&ids).Error; err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(ids))
	for _, id := range ids {
		contract, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *contract)
	}
	return contracts, nil
}
