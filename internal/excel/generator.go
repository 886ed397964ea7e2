package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/epcorn/pestops-contracts/internal/model"
)

const sheetName = "Contracts"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders one row per document: sales rep initials, date, number,
// client, concatenated work areas and rate lines, contact lists, remark.
func (g *Generator) Generate(docs []model.ReportDocument) ([]byte, error) {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheetName)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheetName, cell, value)
	}

	headers := []string{
		"REP",
		"Date",
		"Contract No",
		"Name of Client",
		"Area",
		"Amount",
		"Contact Nos",
		"Remark",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, doc := range docs {
		row := i + 2
		set(fmt.Sprintf("A%d", row), salesInitials(doc))
		set(fmt.Sprintf("B%d", row), formatDate(doc.Date))
		set(fmt.Sprintf("C%d", row), documentNumber(doc))
		set(fmt.Sprintf("D%d", row), doc.BillTo.Name)
		set(fmt.Sprintf("E%d", row), joinWorkAreas(doc.QuoteInfos))
		set(fmt.Sprintf("F%d", row), joinAmounts(doc.QuoteInfos))
		set(fmt.Sprintf("G%d", row), joinContacts(doc.BillTo, doc.ShipTo))
		set(fmt.Sprintf("H%d", row), doc.Note)
	}

	_ = file.SetColWidth(sheetName, "A", "A", 10)
	_ = file.SetColWidth(sheetName, "B", "C", 15)
	_ = file.SetColWidth(sheetName, "D", "D", 30)
	_ = file.SetColWidth(sheetName, "E", "G", 25)
	_ = file.SetColWidth(sheetName, "H", "H", 30)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func salesInitials(doc model.ReportDocument) string {
	if doc.SalesPerson == nil {
		return ""
	}
	return doc.SalesPerson.Initials
}

func documentNumber(doc model.ReportDocument) string {
	if doc.Number != nil && *doc.Number != "" {
		return *doc.Number
	}
	return doc.ID.String()
}

func joinWorkAreas(infos []model.QuoteInfo) string {
	areas := make([]string, 0, len(infos))
	for _, info := range infos {
		areas = append(areas, info.WorkArea)
	}
	return strings.Join(areas, "& ")
}

func joinAmounts(infos []model.QuoteInfo) string {
	amounts := make([]string, 0, len(infos))
	for _, info := range infos {
		amounts = append(amounts, fmt.Sprintf("%v %s- %s", info.ServiceRate, info.ServiceRateUnit, info.Chemical))
	}
	return strings.Join(amounts, "& ")
}

func joinContacts(billTo, shipTo model.Address) string {
	parts := make([]string, 0, 2)
	if billContacts := joinKCI(billTo.KCI); billContacts != "" {
		parts = append(parts, billContacts)
	}
	if shipContacts := joinKCI(shipTo.KCI); shipContacts != "" {
		parts = append(parts, shipContacts)
	}
	return strings.Join(parts, "& ")
}

func joinKCI(entries []model.ContactEntry) string {
	contacts := make([]string, 0, len(entries))
	for _, entry := range entries {
		contacts = append(contacts, fmt.Sprintf("%s (%s)", entry.Contact, entry.Name))
	}
	return strings.Join(contacts, ", ")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
