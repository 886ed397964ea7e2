package model

import (
	"time"

	"github.com/google/uuid"
)

// QuoteInfo is one chemical/service line item, exclusively owned by a single
// contract or quotation at a time.
type QuoteInfo struct {
	ID              uuid.UUID `json:"id"`
	Chemical        string    `json:"chemical"`
	WorkArea        string    `json:"workArea"`
	WorkAreaUnit    string    `json:"workAreaUnit"`
	ServiceRate     float64   `json:"serviceRate"`
	ServiceRateUnit string    `json:"serviceRateUnit"`
	Packaging       string    `json:"packaging"`
	BatchNos        []string  `json:"batchNos"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// QuoteInfoInput is one incoming line item on create/update. IsNew is the
// explicit marker for "no stored identity yet"; the ID field is ignored when
// it is set.
type QuoteInfoInput struct {
	ID              uuid.UUID `json:"id"`
	IsNew           bool      `json:"isNew"`
	Chemical        string    `json:"chemical"`
	WorkArea        string    `json:"workArea"`
	WorkAreaUnit    string    `json:"workAreaUnit"`
	ServiceRate     float64   `json:"serviceRate"`
	ServiceRateUnit string    `json:"serviceRateUnit"`
	Packaging       string    `json:"packaging"`
	BatchNos        []string  `json:"batchNos"`
}
