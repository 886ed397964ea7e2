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

type ContractService struct {
	contracts  ContractStore
	quoteInfos QuoteInfoStore
	revisions  RevisionStore
	sequences  SequenceStore
	fieldwork  FieldworkStore
	prefix     string
	now        func() time.Time
}

func NewContractService(
	contracts ContractStore,
	quoteInfos QuoteInfoStore,
	revisions RevisionStore,
	sequences SequenceStore,
	fieldwork FieldworkStore,
	cfg *config.Config,
) *ContractService {
	return &ContractService{
		contracts:  contracts,
		quoteInfos: quoteInfos,
		revisions:  revisions,
		sequences:  sequences,
		fieldwork:  fieldwork,
		prefix:     cfg.Numbering.ContractPrefix,
		now:        time.Now,
	}
}

type CreateContractInput struct {
	Contract   model.Contract
	QuoteInfos []model.QuoteInfoInput
	AuthorID   uuid.UUID
}

func (s *ContractService) Create(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	contract := input.Contract
	contract.CreatedByID = input.AuthorID
	if contract.ContractDate.IsZero() {
		contract.ContractDate = s.now()
	}
	if contract.SalesPersonID == uuid.Nil {
		contract.SalesPersonID = input.AuthorID
	}

	// Line items on a fresh document are always new rows regardless of any
	// identity the client sent along.
	quoteInfoIDs := make([]uuid.UUID, 0, len(input.QuoteInfos))
	for _, info := range input.QuoteInfos {
		inserted, err := s.quoteInfos.Insert(ctx, info)
		if err != nil {
			return nil, err
		}
		quoteInfoIDs = append(quoteInfoIDs, inserted.ID)
	}

	return s.contracts.Create(ctx, contract, quoteInfoIDs)
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

type ListContractsResult struct {
	Contracts []model.Contract
	Counts    repository.ContractCounts
}

func (s *ContractService) List(ctx context.Context, filter repository.ContractFilter) (*ListContractsResult, error) {
	contracts, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.contracts.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &ListContractsResult{Contracts: contracts, Counts: counts}, nil
}

type UpdateContractInput struct {
	ID             uuid.UUID
	BaseVersion    int64
	Fields         model.ContractUpdate
	QuoteInfos     []model.QuoteInfoInput
	AuthorID       uuid.UUID
	Message        string
	ModifiedFields []string
}

// Update runs the revision policy: an approved contract has its full prior
// state archived before anything changes; line items are reconciled against
// the incoming list, and orphans are hard-deleted only while the contract is
// still a draft.
func (s *ContractService) Update(ctx context.Context, input UpdateContractInput) (*model.Contract, error) {
	current, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current.Version != input.BaseVersion {
		return nil, ErrConflict
	}

	// Snapshot happens strictly before the mutation. Archive failure aborts
	// the whole update: approved-contract history is a compliance record.
	if current.Approved {
		snapshot, err := snapshotOf(current)
		if err != nil {
			return nil, err
		}
		err = s.revisions.Record(ctx, model.Revision{
			DocType:        model.RevisionDocContract,
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

	updated, err := s.contracts.UpdateFields(ctx, input.ID, input.BaseVersion, input.Fields)
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
	if err := s.contracts.SetQuoteInfoIDs(ctx, input.ID, newIDs); err != nil {
		return nil, err
	}
	// Join rows reference quote_infos; they must stop pointing at the removed
	// items before those rows can be deleted.
	if !current.Approved && len(removed) > 0 {
		if err := s.quoteInfos.DeleteMany(ctx, removed); err != nil {
			return nil, err
		}
	}

	s.reviseContractNo(ctx, input.ID)

	return s.Get(ctx, input.ID)
}

// reviseContractNo is the renumber-on-edit hook. Current policy keeps the
// assigned number stable across revisions.
func (s *ContractService) reviseContractNo(ctx context.Context, id uuid.UUID) {
	_ = ctx
	_ = id
}

// Approve transitions draft -> approved, records the pre-approval baseline in
// the archive and assigns the contract number exactly once.
func (s *ContractService) Approve(ctx context.Context, id, authorID uuid.UUID) (*model.Contract, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.Approved {
		return nil, ErrAlreadyApproved
	}

	snapshot, err := snapshotOf(contract)
	if err != nil {
		return nil, err
	}
	err = s.revisions.Record(ctx, model.Revision{
		DocType:  model.RevisionDocContract,
		DocID:    contract.ID,
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
		return nil, fmt.Errorf("next contract number: %w", err)
	}
	contractNo := formatDocNumber(s.prefix, year, seq)

	if err := s.contracts.SetApproved(ctx, id, contractNo); err != nil {
		// A racing approval won between our read and the stamp.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlreadyApproved
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

type ArchiveResult struct {
	Contract  *model.Contract
	Revisions []model.Revision
}

func (s *ContractService) Archive(ctx context.Context, id uuid.UUID) (*ArchiveResult, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	revisions, err := s.revisions.ListByDoc(ctx, model.RevisionDocContract, id)
	if err != nil {
		return nil, err
	}
	return &ArchiveResult{Contract: contract, Revisions: revisions}, nil
}

func (s *ContractService) IncPrintCount(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.contracts.IncPrintCount(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.contracts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *ContractService) AddWorkLog(ctx context.Context, contractID uuid.UUID, log model.WorkLog) (*model.WorkLog, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	log.ContractID = contractID
	return s.fieldwork.AddWorkLog(ctx, log)
}

func (s *ContractService) WorkLogs(ctx context.Context, contractID uuid.UUID) ([]model.WorkLog, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	return s.fieldwork.ListWorkLogs(ctx, contractID)
}

func (s *ContractService) AddDC(ctx context.Context, contractID uuid.UUID, dc model.DC) (*model.DC, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	dc.ContractID = contractID
	return s.fieldwork.AddDC(ctx, dc)
}

func (s *ContractService) DCs(ctx context.Context, contractID uuid.UUID) ([]model.DC, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	return s.fieldwork.ListDCs(ctx, contractID)
}

func formatDocNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s/%d/%04d", prefix, year, seq)
}
