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

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

type quotationRow struct {
	ID            uuid.UUID
	QuotationNo   *string
	DocType       string
	QuotationDate time.Time
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
	Contractified bool
	PrintCount    int
	Version       int64
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const quotationColumns = `
	id, quotation_no, doc_type, quotation_date, sales_person_id,
	bill_to, ship_to, email_to, note, work_order_no, work_order_date,
	gst_no, payment_terms, approved, contractified, print_count, version,
	created_by, created_at, updated_at
`

func (row quotationRow) toModel() (model.Quotation, error) {
	quotation := model.Quotation{
		ID:            row.ID,
		QuotationNo:   row.QuotationNo,
		DocType:       model.DocType(row.DocType),
		QuotationDate: row.QuotationDate,
		SalesPersonID: row.SalesPersonID,
		EmailTo:       []string(row.EmailTo),
		Note:          row.Note,
		WorkOrderNo:   row.WorkOrderNo,
		WorkOrderDate: row.WorkOrderDate,
		GSTNo:         row.GstNo,
		PaymentTerms:  row.PaymentTerms,
		Approved:      row.Approved,
		Contractified: row.Contractified,
		PrintCount:    row.PrintCount,
		Version:       row.Version,
		CreatedByID:   row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.BillTo) > 0 {
		if err := json.Unmarshal(row.BillTo, &quotation.BillToAddress); err != nil {
			return quotation, fmt.Errorf("decode bill_to: %w", err)
		}
	}
	if len(row.ShipTo) > 0 {
		if err := json.Unmarshal(row.ShipTo, &quotation.ShipToAddress); err != nil {
			return quotation, fmt.Errorf("decode ship_to: %w", err)
		}
	}
	return quotation, nil
}

func (r *QuotationRepository) Create(ctx context.Context, quotation model.Quotation, quoteInfoIDs []uuid.UUID) (*model.Quotation, error) {
	billTo, err := json.Marshal(quotation.BillToAddress)
	if err != nil {
		return nil, err
	}
	shipTo, err := json.Marshal(quotation.ShipToAddress)
	if err != nil {
		return nil, err
	}

	var saved quotationRow
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO quotations (
				doc_type, quotation_date, sales_person_id,
				bill_to, ship_to, email_to, note, work_order_no, work_order_date,
				gst_no, payment_terms, created_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+quotationColumns,
			string(quotation.DocType),
			quotation.QuotationDate,
			quotation.SalesPersonID,
			string(billTo),
			string(shipTo),
			pq.StringArray(quotation.EmailTo),
			quotation.Note,
			quotation.WorkOrderNo,
			quotation.WorkOrderDate,
			quotation.GSTNo,
			quotation.PaymentTerms,
			quotation.CreatedByID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		return replaceQuoteInfoLinks(tx, "quotation_quote_infos", "quotation_id", saved.ID, quoteInfoIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, saved.ID)
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var row quotationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quotationColumns+` FROM quotations WHERE id = ? LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	quotation, err := row.toModel()
	if err != nil {
		return nil, err
	}
	quotation.QuoteInfos, err = listQuoteInfosFor(r.db.WithContext(ctx), "quotation_quote_infos", "quotation_id", id)
	if err != nil {
		return nil, err
	}
	quotation.SalesPerson, err = getUserRef(r.db.WithContext(ctx), quotation.SalesPersonID)
	if err != nil {
		return nil, err
	}
	quotation.CreatedBy, err = getUserRef(r.db.WithContext(ctx), quotation.CreatedByID)
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

type QuotationFilter struct {
	CreatedBy   *uuid.UUID
	ProjectName string
	ClientName  string
	QuotationNo string
	FromDate    *time.Time
	ToDate      *time.Time
	Approved    *bool
	StartIndex  int
	Limit       int
	Order       string
}

func (r *QuotationRepository) List(ctx context.Context, filter QuotationFilter) ([]model.Quotation, error) {
	baseQuery := `SELECT ` + quotationColumns + ` FROM quotations WHERE 1=1`
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
	if filter.QuotationNo != "" {
		baseQuery += " AND quotation_no ILIKE ?"
		args = append(args, "%"+filter.QuotationNo+"%")
	}
	if filter.Approved != nil {
		baseQuery += " AND approved = ?"
		args = append(args, *filter.Approved)
	}
	if filter.FromDate != nil {
		baseQuery += " AND quotation_date >= ?"
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		baseQuery += " AND quotation_date <= ?"
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

	var rows []quotationRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	quotations := make([]model.Quotation, 0, len(rows))
	for _, row := range rows {
		quotation, err := row.toModel()
		if err != nil {
			return nil, err
		}
		quotation.CreatedBy, err = getUserRef(r.db.WithContext(ctx), quotation.CreatedByID)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, quotation)
	}
	return quotations, nil
}

func (r *QuotationRepository) Counts(ctx context.Context) (ContractCounts, error) {
	var counts ContractCounts
	startOfDay := time.Now().Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= ?) AS today,
			COUNT(*) FILTER (WHERE approved) AS approved_count,
			COUNT(*) FILTER (WHERE NOT approved) AS approve_pending
		FROM quotations
	`, startOfDay).Scan(&counts).Error
	return counts, err
}

func (r *QuotationRepository) UpdateFields(ctx context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error) {
	billTo, err := json.Marshal(update.BillToAddress)
	if err != nil {
		return false, err
	}
	shipTo, err := json.Marshal(update.ShipToAddress)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotations SET
			quotation_date = ?,
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

func (r *QuotationRepository) SetQuoteInfoIDs(ctx context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceQuoteInfoLinks(tx, "quotation_quote_infos", "quotation_id", id, quoteInfoIDs)
	})
}

// SetApproved stamps the assigned number on the one-way draft -> approved
// transition. An already-approved row never matches.
func (r *QuotationRepository) SetApproved(ctx context.Context, id uuid.UUID, quotationNo string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotations
		SET approved = TRUE, quotation_no = ?, version = version + 1, updated_at = NOW()
		WHERE id = ? AND approved = FALSE
	`, quotationNo, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuotationRepository) SetContractified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE quotations
		SET contractified = TRUE, version = version + 1, updated_at = NOW()
		WHERE id = ?
	`, id).Error
}

func (r *QuotationRepository) IncPrintCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE quotations SET print_count = print_count + 1 WHERE id = ?
	`, id).Error
}

func (r *QuotationRepository) ListAllPopulated(ctx context.Context) ([]model.Quotation, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id FROM quotations ORDER BY quotation_date ASC
	`).Scan(&ids).Error; err != nil {
		return nil, err
	}

	quotations := make([]model.Quotation, 0, len(ids))
	for _, id := range ids {
		quotation, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, *quotation)
	}
	return quotations, nil
}

// SimilarProjects returns distinct project names matching the search term,
// used by the client for autocomplete on new documents.
func (r *QuotationRepository) SimilarProjects(ctx context.Context, projectName string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ship_to->>'projectName'
		FROM quotations
		WHERE ship_to->>'projectName' ILIKE ?
		ORDER BY 1 ASC
		LIMIT 20
	`, "%"+projectName+"%").Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
