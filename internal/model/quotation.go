package model

import (
	"time"

	"github.com/google/uuid"
)

// Quotation is the pre-approval precursor to a Contract. Once approved it
// may be contractified exactly once.
type Quotation struct {
	ID            uuid.UUID  `json:"id"`
	QuotationNo   *string    `json:"quotationNo"`
	DocType       DocType    `json:"docType"`
	QuotationDate time.Time  `json:"quotationDate"`
	SalesPersonID uuid.UUID  `json:"salesPersonId"`
	BillToAddress Address    `json:"billToAddress"`
	ShipToAddress Address    `json:"shipToAddress"`
	EmailTo       []string   `json:"emailTo"`
	Note          string     `json:"note"`
	WorkOrderNo   string     `json:"workOrderNo"`
	WorkOrderDate *time.Time `json:"workOrderDate,omitempty"`
	GSTNo         string     `json:"gstNo"`
	PaymentTerms  string     `json:"paymentTerms"`
	Approved      bool       `json:"approved"`
	Contractified bool       `json:"contractified"`
	PrintCount    int        `json:"printCount"`
	Version       int64      `json:"version"`
	CreatedByID   uuid.UUID  `json:"createdById"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	QuoteInfos  []QuoteInfo `json:"quoteInfo,omitempty"`
	SalesPerson *User       `json:"salesPerson,omitempty"`
	CreatedBy   *User       `json:"createdBy,omitempty"`
}
