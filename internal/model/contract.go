package model

import (
	"time"

	"github.com/google/uuid"
)

type DocType string

const (
	DocTypeStandard    DocType = "standard"
	DocTypeSupply      DocType = "supply"
	DocTypeSupplyApply DocType = "supply/apply"
)

// ContactEntry is one "keep contact informed" person on an address.
type ContactEntry struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Address struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	Pincode     string         `json:"pincode"`
	ProjectName string         `json:"projectName"`
	KCI         []ContactEntry `json:"kci"`
}

// Contract is the primary mutable business document. ContractNo stays nil
// until the contract is approved; Version is the optimistic-concurrency
// token checked on every update.
type Contract struct {
	ID            uuid.UUID  `json:"id"`
	QuotationID   *uuid.UUID `json:"quotationId,omitempty"`
	ContractNo    *string    `json:"contractNo"`
	DocType       DocType    `json:"docType"`
	ContractDate  time.Time  `json:"contractDate"`
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
	PrintCount    int        `json:"printCount"`
	Version       int64      `json:"version"`
	CreatedByID   uuid.UUID  `json:"createdById"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	QuoteInfos  []QuoteInfo `json:"quoteInfo,omitempty"`
	SalesPerson *User       `json:"salesPerson,omitempty"`
	CreatedBy   *User       `json:"createdBy,omitempty"`
}

// ContractUpdate enumerates exactly the fields a client may change on an
// existing contract. Identity, approval state, contract number and archive
// are never writable through an update.
type ContractUpdate struct {
	ContractDate  time.Time  `json:"contractDate"`
	SalesPersonID uuid.UUID  `json:"salesPersonId"`
	BillToAddress Address    `json:"billToAddress"`
	ShipToAddress Address    `json:"shipToAddress"`
	EmailTo       []string   `json:"emailTo"`
	Note          string     `json:"note"`
	WorkOrderNo   string     `json:"workOrderNo"`
	WorkOrderDate *time.Time `json:"workOrderDate"`
	GSTNo         string     `json:"gstNo"`
	PaymentTerms  string     `json:"paymentTerms"`
}
