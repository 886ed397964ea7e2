package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/epcorn/pestops-contracts/internal/model"
	"github.com/epcorn/pestops-contracts/internal/repository"
)

// Store interfaces are declared here, on the consumer side; the repository
// package provides the postgres implementations.

type ContractStore interface {
	Create(ctx context.Context, contract model.Contract, quoteInfoIDs []uuid.UUID) (*model.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, filter repository.ContractFilter) ([]model.Contract, error)
	Counts(ctx context.Context) (repository.ContractCounts, error)
	UpdateFields(ctx context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error)
	SetQuoteInfoIDs(ctx context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error
	SetApproved(ctx context.Context, id uuid.UUID, contractNo string) error
	IncPrintCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListAllPopulated(ctx context.Context) ([]model.Contract, error)
}

type QuotationStore interface {
	Create(ctx context.Context, quotation model.Quotation, quoteInfoIDs []uuid.UUID) (*model.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, filter repository.QuotationFilter) ([]model.Quotation, error)
	Counts(ctx context.Context) (repository.ContractCounts, error)
	UpdateFields(ctx context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error)
	SetQuoteInfoIDs(ctx context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error
	SetApproved(ctx context.Context, id uuid.UUID, quotationNo string) error
	SetContractified(ctx context.Context, id uuid.UUID) error
	IncPrintCount(ctx context.Context, id uuid.UUID) error
	SimilarProjects(ctx context.Context, projectName string) ([]string, error)
	ListAllPopulated(ctx context.Context) ([]model.Quotation, error)
}

type QuoteInfoStore interface {
	Insert(ctx context.Context, input model.QuoteInfoInput) (*model.QuoteInfo, error)
	Update(ctx context.Context, input model.QuoteInfoInput) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuoteInfo, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	Clone(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type RevisionStore interface {
	Record(ctx context.Context, revision model.Revision) error
	ListByDoc(ctx context.Context, docType model.RevisionDoc, docID uuid.UUID) ([]model.Revision, error)
}

type SequenceStore interface {
	Next(ctx context.Context, docType string, year int) (int64, error)
}

type FieldworkStore interface {
	AddWorkLog(ctx context.Context, log model.WorkLog) (*model.WorkLog, error)
	ListWorkLogs(ctx context.Context, contractID uuid.UUID) ([]model.WorkLog, error)
	AddDC(ctx context.Context, dc model.DC) (*model.DC, error)
	ListDCs(ctx context.Context, contractID uuid.UUID) ([]model.DC, error)
}

type ChemicalStore interface {
	List(ctx context.Context) ([]model.Chemical, error)
	Create(ctx context.Context, name string) (*model.Chemical, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Chemical, error)
	AddBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error)
	RemoveBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListInitials(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
