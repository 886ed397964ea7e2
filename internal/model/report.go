package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportDocument is the view of a contract or quotation consumed by the
// report exporter: one spreadsheet row per document.
type ReportDocument struct {
	ID          uuid.UUID
	Number      *string
	Date        time.Time
	BillTo      Address
	ShipTo      Address
	QuoteInfos  []QuoteInfo
	Note        string
	SalesPerson *User
}

func ReportDocumentFromContract(c Contract) ReportDocument {
	return ReportDocument{
		ID:          c.ID,
		Number:      c.ContractNo,
		Date:        c.ContractDate,
		BillTo:      c.BillToAddress,
		ShipTo:      c.ShipToAddress,
		QuoteInfos:  c.QuoteInfos,
		Note:        c.Note,
		SalesPerson: c.SalesPerson,
	}
}

func ReportDocumentFromQuotation(q Quotation) ReportDocument {
	return ReportDocument{
		ID:          q.ID,
		Number:      q.QuotationNo,
		Date:        q.QuotationDate,
		BillTo:      q.BillToAddress,
		ShipTo:      q.ShipToAddress,
		QuoteInfos:  q.QuoteInfos,
		Note:        q.Note,
		SalesPerson: q.SalesPerson,
	}
}
