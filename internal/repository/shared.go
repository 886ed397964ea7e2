package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type quoteInfoRow struct {
	ID              uuid.UUID
	Chemical        string
	WorkArea        string
	WorkAreaUnit    string
	ServiceRate     float64
	ServiceRateUnit string
	Packaging       string
	BatchNos        pq.StringArray `gorm:"type:text[]"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (row quoteInfoRow) toModel() model.QuoteInfo {
	return model.QuoteInfo{
		ID:              row.ID,
		Chemical:        row.Chemical,
		WorkArea:        row.WorkArea,
		WorkAreaUnit:    row.WorkAreaUnit,
		ServiceRate:     row.ServiceRate,
		ServiceRateUnit: row.ServiceRateUnit,
		Packaging:       row.Packaging,
		BatchNos:        []string(row.BatchNos),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// listQuoteInfosFor loads the ordered quote-info line items owned through
// the given join table.
func listQuoteInfosFor(db *gorm.DB, joinTable, ownerColumn string, ownerID uuid.UUID) ([]model.QuoteInfo, error) {
	query := fmt.Sprintf(`
		SELECT
			qi.id, qi.chemical, qi.work_area, qi.work_area_unit,
			qi.service_rate, qi.service_rate_unit, qi.packaging, qi.batch_nos,
			qi.created_at, qi.updated_at
		FROM quote_infos qi
		JOIN %s link ON link.quote_info_id = qi.id
		WHERE link.%s = ?
		ORDER BY link.position ASC
	`, joinTable, ownerColumn)

	var rows []quoteInfoRow
	if err := db.Raw(query, ownerID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	infos := make([]model.QuoteInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.toModel())
	}
	return infos, nil
}

// replaceQuoteInfoLinks rewrites the ownership list preserving client order.
func replaceQuoteInfoLinks(tx *gorm.DB, joinTable, ownerColumn string, ownerID uuid.UUID, quoteInfoIDs []uuid.UUID) error {
	if err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, joinTable, ownerColumn), ownerID).Error; err != nil {
		return err
	}
	for position, quoteInfoID := range quoteInfoIDs {
		err := tx.Exec(fmt.Sprintf(`
			INSERT INTO %s (%s, quote_info_id, position) VALUES (?, ?, ?)
		`, joinTable, ownerColumn), ownerID, quoteInfoID, position).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// endOfDay widens a date filter bound to the last instant of that calendar
// day, so a date-only toDate still matches documents dated later the same day.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func getUserRef(db *gorm.DB, id uuid.UUID) (*model.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var user model.User
	err := db.Raw(`
		SELECT id, username, email, initials, role, created_at
		FROM users WHERE id = ? LIMIT 1
	`, id).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, nil
	}
	return &user, nil
}
