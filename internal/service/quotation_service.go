package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/config"
	"github.com/epcorn/pestops-contracts/internal/model"
	"github.com/epcorn/pestops-contracts/internal/repository"
)

type QuotationService struct {
	quotations QuotationStore
	contracts  ContractStore
	quoteInfos QuoteInfoStore
	revisions  RevisionStore
	sequences  SequenceStore
	prefix     string
	now        func() time.Time
}

func NewQuotationService(
	quotations QuotationStore,
	contracts ContractStore,
	quoteInfos QuoteInfoStore,
	revisions RevisionStore,
	sequences SequenceStore,
	cfg *config.Config,
) *QuotationService {
	return &QuotationService{
		quotations: quotations,
		contracts:  contracts,
		quoteInfos: quoteInfos,
		revisions:  revisions,
		sequences:  sequences,
		prefix:     cfg.Numbering.QuotationPrefix,
		now:        time.Now,
	}
}

type CreateQuotationInput struct {
	Quotation  model.Quotation
	QuoteInfos []model.QuoteInfoInput
	AuthorID   uuid.UUID
}

func (s *QuotationService) Create(ctx context.Context, input CreateQuotationInput) (*model.Quotation, error) {
	quotation := input.Quotation
	quotation.CreatedByID = input.AuthorID
	if quotation.QuotationDate.IsZero() {
		quotation.QuotationDate = s.now()
	}
	if quotation.SalesPersonID == uuid.Nil {
		quotation.SalesPersonID = input.AuthorID
	}

	quoteInfoIDs := make([]uuid.UUID, 0, len(input.QuoteInfos))
	for _, info := range input.QuoteInfos {
		inserted, err := s.quoteInfos.Insert(ctx, info)
		if err != nil {
			return nil, err
		}
		quoteInfoIDs = append(quoteInfoIDs, inserted.ID)
	}

	return s.quotations.Create(ctx, quotation, quoteInfoIDs)
}

func (s *QuotationService) Get(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	quotation, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quotation, nil
}

type ListQuotationsResult struct {
	Quotations []model.Quotation
	Counts     repository.ContractCounts
}

func (s *QuotationService) List(ctx context.Context, filter repository.QuotationFilter) (*ListQuotationsResult, error) {
	quotations, err := s.quotations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.quotations.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &ListQuotationsResult{Quotations: quotations, Counts: counts}, nil
}

type UpdateQuotationInput struct {
	ID             uuid.UUID
	BaseVersion    int64
	Fields         model.ContractUpdate
	QuoteInfos     []model.QuoteInfoInput
	AuthorID       uuid.UUID
	Message        string
	ModifiedFields []string
}

// Update follows the same revision policy as contracts: archive-then-mutate
// for approved quotations, orphan deletion only for drafts.
func (s *QuotationService) Update(ctx context.Context, input UpdateQuotationInput) (*model.Quotation, error) {
	current, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current.Version != input.BaseVersion {
		return nil, ErrConflict
	}

	if current.Approved {
		snapshot, err := snapshotOf(current)
		if err != nil {
			return nil, err
		}
		err = s.revisions.Record(ctx, model.Revision{
			DocType:        model.RevisionDocQuotation,
			DocID:          current.ID,
			Snapshot:       snapshot,
			AuthorID:       input.AuthorID,
			Message:        input.Message,
			ModifiedFields: input.ModifiedFields,
		})
		if err != nil {
			return nil, fmt.Errorf("record revision: %w", err)
		}
	}

	updated, err := s.quotations.UpdateFields(ctx, input.ID, input.BaseVersion, input.Fields)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConflict
	}

	oldIDs := quoteInfoIDs(current.QuoteInfos)
	newIDs, removed, err := reconcileQuoteInfos(ctx, s.quoteInfos, oldIDs, input.QuoteInfos)
	if err != nil {
		return nil, err
	}
	if err := s.quotations.SetQuoteInfoIDs(ctx, input.ID, newIDs); err != nil {
		return nil, err
	}
	// Join rows reference quote_infos; they must stop pointing at the removed
	// items before those rows can be deleted.
	if !current.Approved && len(removed) > 0 {
		if err := s.quoteInfos.DeleteMany(ctx, removed); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, input.ID)
}

func (s *QuotationService) Approve(ctx context.Context, id, authorID uuid.UUID) (*model.Quotation, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Approved {
		return nil, ErrAlreadyApproved
	}

	snapshot, err := snapshotOf(quotation)
	if err != nil {
		return nil, err
	}
	err = s.revisions.Record(ctx, model.Revision{
		DocType:  model.RevisionDocQuotation,
		DocID:    quotation.ID,
		Snapshot: snapshot,
		AuthorID: authorID,
		Message:  "Approved",
	})
	if err != nil {
		return nil, fmt.Errorf("record approval revision: %w", err)
	}

	year := s.now().Year()
	seq, err := s.sequences.Next(ctx, s.prefix, year)
	if err != nil {
		return nil, fmt.Errorf("next quotation number: %w", err)
	}
	quotationNo := formatDocNumber(s.prefix, year, seq)

	if err := s.quotations.SetApproved(ctx, id, quotationNo); err != nil {
		// A racing approval won between our read and the stamp.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlreadyApproved
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Contractify turns an approved quotation into a draft contract exactly
// once. Line items are cloned into fresh rows so the contract owns its own
// copies and later edits to either document stay independent.
func (s *QuotationService) Contractify(ctx context.Context, id, authorID uuid.UUID) (*model.Contract, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Contractified {
		return nil, ErrAlreadyContractified
	}
	if !quotation.Approved {
		return nil, ErrNotApproved
	}

	clonedIDs, err := s.quoteInfos.Clone(ctx, quoteInfoIDs(quotation.QuoteInfos))
	if err != nil {
		return nil, err
	}

	contract := model.Contract{
		QuotationID:   &quotation.ID,
		DocType:       quotation.DocType,
		ContractDate:  s.now(),
		SalesPersonID: quotation.SalesPersonID,
		BillToAddress: quotation.BillToAddress,
		ShipToAddress: quotation.ShipToAddress,
		EmailTo:       quotation.EmailTo,
		Note:          quotation.Note,
		WorkOrderNo:   quotation.WorkOrderNo,
		WorkOrderDate: quotation.WorkOrderDate,
		GSTNo:         quotation.GSTNo,
		PaymentTerms:  quotation.PaymentTerms,
		CreatedByID:   authorID,
	}
	created, err := s.contracts.Create(ctx, contract, clonedIDs)
	if err != nil {
		return nil, err
	}

	if err := s.quotations.SetContractified(ctx, id); err != nil {
		return nil, err
	}
	return created, nil
}

type QuotationArchiveResult struct {
	Quotation *model.Quotation
	Revisions []model.Revision
}

func (s *QuotationService) Archive(ctx context.Context, id uuid.UUID) (*QuotationArchiveResult, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	revisions, err := s.revisions.ListByDoc(ctx, model.RevisionDocQuotation, id)
	if err != nil {
		return nil, err
	}
	return &QuotationArchiveResult{Quotation: quotation, Revisions: revisions}, nil
}

func (s *QuotationService) IncPrintCount(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.quotations.IncPrintCount(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *QuotationService) SimilarProjects(ctx context.Context, projectName string) ([]string, error) {
	if projectName == "" {
		return nil, fmt.Errorf("%w: projectName is required", ErrInvalidInput)
	}
	return s.quotations.SimilarProjects(ctx, projectName)
}
