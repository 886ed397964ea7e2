package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the printable contract document handed to field teams.
func (g *Generator) Generate(contract model.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "SERVICE CONTRACT", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract No: %s", contractNumber(contract)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", formatDate(contract.ContractDate)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addAddressBlock(pdf, "Bill To", contract.BillToAddress)
	pdf.Ln(2)
	addAddressBlock(pdf, "Ship To", contract.ShipToAddress)
	pdf.Ln(4)

	if contract.WorkOrderNo != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Work Order No: %s", contract.WorkOrderNo), "", 1, "L", false, 0, "")
	}
	if contract.GSTNo != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("GST No: %s", contract.GSTNo), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Services", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	headers := []string{"Chemical", "Work Area", "Rate", "Unit", "Packaging"}
	colWidths := []float64{50, 45, 25, 25, 35}
	drawTableRow(pdf, headers, colWidths, true)

	for _, info := range contract.QuoteInfos {
		row := []string{
			info.Chemical,
			info.WorkArea,
			fmt.Sprintf("%.2f", info.ServiceRate),
			info.ServiceRateUnit,
			info.Packaging,
		}
		drawTableRow(pdf, row, colWidths, false)
	}
	pdf.Ln(4)

	if contract.PaymentTerms != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Payment Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, contract.PaymentTerms, "", "L", false)
		pdf.Ln(2)
	}
	if contract.Note != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Note", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, contract.Note, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addAddressBlock(pdf *gofpdf.Fpdf, label string, address model.Address) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, address.Name, "", 1, "L", false, 0, "")
	if address.ProjectName != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Project: %s", address.ProjectName), "", 1, "L", false, 0, "")
	}
	line := address.Address
	if address.City != "" {
		line += ", " + address.City
	}
	if address.Pincode != "" {
		line += " - " + address.Pincode
	}
	pdf.MultiCell(0, 5, line, "", "L", false)
	if contacts := joinContacts(address.KCI); contacts != "" {
		pdf.CellFormat(0, 5, contacts, "", 1, "L", false, 0, "")
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	if header {
		pdf.SetFont("Arial", "B", 10)
	}
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	if header {
		pdf.SetFont("Arial", "", 10)
	}
}

func joinContacts(entries []model.ContactEntry) string {
	contacts := make([]string, 0, len(entries))
	for _, entry := range entries {
		contacts = append(contacts, fmt.Sprintf("%s (%s)", entry.Contact, entry.Name))
	}
	return strings.Join(contacts, ", ")
}

func contractNumber(contract model.Contract) string {
	if contract.ContractNo != nil && *contract.ContractNo != "" {
		return *contract.ContractNo
	}
	return "DRAFT"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
