package service

import (
	"context"
	"fmt"
	"time"

	"github.com/epcorn/pestops-contracts/internal/config"
	"github.com/epcorn/pestops-contracts/internal/mailer"
	"github.com/epcorn/pestops-contracts/internal/model"
)

type ExcelGenerator interface {
	Generate(docs []model.ReportDocument) ([]byte, error)
}

type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// ReportService builds the spreadsheet of all contracts and quotations and
// mails it to the office recipients, on demand or on the configured schedule.
type ReportService struct {
	contracts  ContractStore
	quotations QuotationStore
	excel      ExcelGenerator
	sender     Sender
	recipients []string
	now        func() time.Time
}

func NewReportService(contracts ContractStore, quotations QuotationStore, excel ExcelGenerator, sender Sender, cfg *config.Config) *ReportService {
	return &ReportService{
		contracts:  contracts,
		quotations: quotations,
		excel:      excel,
		sender:     sender,
		recipients: cfg.Report.Recipients,
		now:        time.Now,
	}
}

func (s *ReportService) SendContractsReport(ctx context.Context) error {
	if len(s.recipients) == 0 {
		return fmt.Errorf("%w: no report recipients configured", ErrInvalidInput)
	}

	contracts, err := s.contracts.ListAllPopulated(ctx)
	if err != nil {
		return err
	}
	quotations, err := s.quotations.ListAllPopulated(ctx)
	if err != nil {
		return err
	}
	docs := make([]model.ReportDocument, 0, len(contracts)+len(quotations))
	for _, contract := range contracts {
		docs = append(docs, model.ReportDocumentFromContract(contract))
	}
	for _, quotation := range quotations {
		docs = append(docs, model.ReportDocumentFromQuotation(quotation))
	}

	content, err := s.excel.Generate(docs)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return s.sender.Send(ctx, mailer.Message{
		To:             s.recipients,
		Subject:        "Contracts Report",
		Body:           "Please find the latest contracts report attached.",
		AttachmentName: fmt.Sprintf("contracts-report-%s.xlsx", s.now().Format("20060102")),
		Attachment:     content,
	})
}
