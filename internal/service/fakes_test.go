package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
	"github.com/epcorn/pestops-contracts/internal/repository"
)

// memState backs the in-memory store fakes. All fakes share one state so the
// services see a consistent view, the way they would against one database.
type memState struct {
	contracts      map[uuid.UUID]model.Contract
	quotations     map[uuid.UUID]model.Quotation
	contractLinks  map[uuid.UUID][]uuid.UUID
	quotationLinks map[uuid.UUID][]uuid.UUID
	quoteInfos     map[uuid.UUID]model.QuoteInfo
	revisions      []model.Revision
	sequences      map[string]int64
	workLogs       []model.WorkLog
	dcs            []model.DC

	failRecord bool
}

func newMemState() *memState {
	return &memState{
		contracts:      map[uuid.UUID]model.Contract{},
		quotations:     map[uuid.UUID]model.Quotation{},
		contractLinks:  map[uuid.UUID][]uuid.UUID{},
		quotationLinks: map[uuid.UUID][]uuid.UUID{},
		quoteInfos:     map[uuid.UUID]model.QuoteInfo{},
		sequences:      map[string]int64{},
	}
}

func (st *memState) populatedInfos(ids []uuid.UUID) []model.QuoteInfo {
	infos := make([]model.QuoteInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := st.quoteInfos[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// linked reports whether any join row still references the quote info, the
// way the schema's foreign keys would.
func (st *memState) linked(id uuid.UUID) bool {
	for _, ids := range st.contractLinks {
		for _, linked := range ids {
			if linked == id {
				return true
			}
		}
	}
	for _, ids := range st.quotationLinks {
		for _, linked := range ids {
			if linked == id {
				return true
			}
		}
	}
	return false
}

func (st *memState) revisionsFor(docType model.RevisionDoc, docID uuid.UUID) []model.Revision {
	var result []model.Revision
	for _, rev := range st.revisions {
		if rev.DocType == docType && rev.DocID == docID {
			result = append(result, rev)
		}
	}
	return result
}

type fakeContractStore struct{ st *memState }

func (f *fakeContractStore) Create(_ context.Context, contract model.Contract, quoteInfoIDs []uuid.UUID) (*model.Contract, error) {
	contract.ID = uuid.New()
	contract.Version = 1
	f.st.contracts[contract.ID] = contract
	f.st.contractLinks[contract.ID] = append([]uuid.UUID(nil), quoteInfoIDs...)
	return f.GetByID(context.Background(), contract.ID)
}

func (f *fakeContractStore) GetByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, ok := f.st.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	contract.QuoteInfos = f.st.populatedInfos(f.st.contractLinks[id])
	return &contract, nil
}

func (f *fakeContractStore) List(_ context.Context, _ repository.ContractFilter) ([]model.Contract, error) {
	result := make([]model.Contract, 0, len(f.st.contracts))
	for id := range f.st.contracts {
		contract, _ := f.GetByID(context.Background(), id)
		result = append(result, *contract)
	}
	return result, nil
}

func (f *fakeContractStore) Counts(_ context.Context) (repository.ContractCounts, error) {
	return repository.ContractCounts{Total: int64(len(f.st.contracts))}, nil
}

func (f *fakeContractStore) UpdateFields(_ context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error) {
	contract, ok := f.st.contracts[id]
	if !ok || contract.Version != baseVersion {
		return false, nil
	}
	contract.ContractDate = update.ContractDate
	contract.SalesPersonID = update.SalesPersonID
	contract.BillToAddress = update.BillToAddress
	contract.ShipToAddress = update.ShipToAddress
	contract.EmailTo = update.EmailTo
	contract.Note = update.Note
	contract.WorkOrderNo = update.WorkOrderNo
	contract.WorkOrderDate = update.WorkOrderDate
	contract.GSTNo = update.GSTNo
	contract.PaymentTerms = update.PaymentTerms
	contract.Version++
	f.st.contracts[id] = contract
	return true, nil
}

func (f *fakeContractStore) SetQuoteInfoIDs(_ context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error {
	f.st.contractLinks[id] = append([]uuid.UUID(nil), quoteInfoIDs...)
	return nil
}

func (f *fakeContractStore) SetApproved(_ context.Context, id uuid.UUID, contractNo string) error {
	contract, ok := f.st.contracts[id]
	if !ok || contract.Approved {
		return gorm.ErrRecordNotFound
	}
	contract.Approved = true
	contract.ContractNo = &contractNo
	f.st.contracts[id] = contract
	return nil
}

func (f *fakeContractStore) IncPrintCount(_ context.Context, id uuid.UUID) error {
	contract, ok := f.st.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	contract.PrintCount++
	f.st.contracts[id] = contract
	return nil
}

func (f *fakeContractStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.st.contracts[id]; !ok {
		return false, nil
	}
	delete(f.st.contracts, id)
	delete(f.st.contractLinks, id)
	return true, nil
}

func (f *fakeContractStore) ListAllPopulated(ctx context.Context) ([]model.Contract, error) {
	return f.List(ctx, repository.ContractFilter{})
}

type fakeQuotationStore struct{ st *memState }

func (f *fakeQuotationStore) Create(_ context.Context, quotation model.Quotation, quoteInfoIDs []uuid.UUID) (*model.Quotation, error) {
	quotation.ID = uuid.New()
	quotation.Version = 1
	f.st.quotations[quotation.ID] = quotation
	f.st.quotationLinks[quotation.ID] = append([]uuid.UUID(nil), quoteInfoIDs...)
	return f.GetByID(context.Background(), quotation.ID)
}

func (f *fakeQuotationStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quotation, error) {
	quotation, ok := f.st.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	quotation.QuoteInfos = f.st.populatedInfos(f.st.quotationLinks[id])
	return &quotation, nil
}

func (f *fakeQuotationStore) List(_ context.Context, _ repository.QuotationFilter) ([]model.Quotation, error) {
	result := make([]model.Quotation, 0, len(f.st.quotations))
	for id := range f.st.quotations {
		quotation, _ := f.GetByID(context.Background(), id)
		result = append(result, *quotation)
	}
	return result, nil
}

func (f *fakeQuotationStore) Counts(_ context.Context) (repository.ContractCounts, error) {
	return repository.ContractCounts{Total: int64(len(f.st.quotations))}, nil
}

func (f *fakeQuotationStore) UpdateFields(_ context.Context, id uuid.UUID, baseVersion int64, update model.ContractUpdate) (bool, error) {
	quotation, ok := f.st.quotations[id]
	if !ok || quotation.Version != baseVersion {
		return false, nil
	}
	quotation.QuotationDate = update.ContractDate
	quotation.SalesPersonID = update.SalesPersonID
	quotation.BillToAddress = update.BillToAddress
	quotation.ShipToAddress = update.ShipToAddress
	quotation.EmailTo = update.EmailTo
	quotation.Note = update.Note
	quotation.WorkOrderNo = update.WorkOrderNo
	quotation.WorkOrderDate = update.WorkOrderDate
	quotation.GSTNo = update.GSTNo
	quotation.PaymentTerms = update.PaymentTerms
	quotation.Version++
	f.st.quotations[id] = quotation
	return true, nil
}

func (f *fakeQuotationStore) SetQuoteInfoIDs(_ context.Context, id uuid.UUID, quoteInfoIDs []uuid.UUID) error {
	f.st.quotationLinks[id] = append([]uuid.UUID(nil), quoteInfoIDs...)
	return nil
}

func (f *fakeQuotationStore) SetApproved(_ context.Context, id uuid.UUID, quotationNo string) error {
	quotation, ok := f.st.quotations[id]
	if !ok || quotation.Approved {
		return gorm.ErrRecordNotFound
	}
	quotation.Approved = true
	quotation.QuotationNo = &quotationNo
	f.st.quotations[id] = quotation
	return nil
}

func (f *fakeQuotationStore) SetContractified(_ context.Context, id uuid.UUID) error {
	quotation, ok := f.st.quotations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quotation.Contractified = true
	f.st.quotations[id] = quotation
	return nil
}

func (f *fakeQuotationStore) IncPrintCount(_ context.Context, id uuid.UUID) error {
	quotation, ok := f.st.quotations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quotation.PrintCount++
	f.st.quotations[id] = quotation
	return nil
}

func (f *fakeQuotationStore) ListAllPopulated(ctx context.Context) ([]model.Quotation, error) {
	return f.List(ctx, repository.QuotationFilter{})
}

func (f *fakeQuotationStore) SimilarProjects(_ context.Context, projectName string) ([]string, error) {
	var result []string
	seen := map[string]struct{}{}
	for _, quotation := range f.st.quotations {
		name := quotation.ShipToAddress.ProjectName
		if name == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(name), strings.ToLower(projectName)) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result, nil
}

type fakeQuoteInfoStore struct{ st *memState }

func (f *fakeQuoteInfoStore) Insert(_ context.Context, input model.QuoteInfoInput) (*model.QuoteInfo, error) {
	info := model.QuoteInfo{
		ID:              uuid.New(),
		Chemical:        input.Chemical,
		WorkArea:        input.WorkArea,
		WorkAreaUnit:    input.WorkAreaUnit,
		ServiceRate:     input.ServiceRate,
		ServiceRateUnit: input.ServiceRateUnit,
		Packaging:       input.Packaging,
		BatchNos:        input.BatchNos,
	}
	f.st.quoteInfos[info.ID] = info
	return &info, nil
}

func (f *fakeQuoteInfoStore) Update(_ context.Context, input model.QuoteInfoInput) (bool, error) {
	info, ok := f.st.quoteInfos[input.ID]
	if !ok {
		return false, nil
	}
	info.Chemical = input.Chemical
	info.WorkArea = input.WorkArea
	info.WorkAreaUnit = input.WorkAreaUnit
	info.ServiceRate = input.ServiceRate
	info.ServiceRateUnit = input.ServiceRateUnit
	info.Packaging = input.Packaging
	info.BatchNos = input.BatchNos
	f.st.quoteInfos[input.ID] = info
	return true, nil
}

func (f *fakeQuoteInfoStore) GetByID(_ context.Context, id uuid.UUID) (*model.QuoteInfo, error) {
	info, ok := f.st.quoteInfos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &info, nil
}

func (f *fakeQuoteInfoStore) DeleteMany(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if f.st.linked(id) {
			return fmt.Errorf(`delete on table "quote_infos" violates foreign key constraint`)
		}
		delete(f.st.quoteInfos, id)
	}
	return nil
}

func (f *fakeQuoteInfoStore) Clone(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	cloned := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		info, ok := f.st.quoteInfos[id]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		info.ID = uuid.New()
		f.st.quoteInfos[info.ID] = info
		cloned = append(cloned, info.ID)
	}
	return cloned, nil
}

type fakeRevisionStore struct{ st *memState }

func (f *fakeRevisionStore) Record(_ context.Context, revision model.Revision) error {
	if f.st.failRecord {
		return fmt.Errorf("archive unavailable")
	}
	revision.ID = uuid.New()
	f.st.revisions = append(f.st.revisions, revision)
	return nil
}

func (f *fakeRevisionStore) ListByDoc(_ context.Context, docType model.RevisionDoc, docID uuid.UUID) ([]model.Revision, error) {
	return f.st.revisionsFor(docType, docID), nil
}

type fakeSequenceStore struct{ st *memState }

func (f *fakeSequenceStore) Next(_ context.Context, docType string, year int) (int64, error) {
	key := fmt.Sprintf("%s:%d", docType, year)
	f.st.sequences[key]++
	return f.st.sequences[key], nil
}

type fakeFieldworkStore struct{ st *memState }

func (f *fakeFieldworkStore) AddWorkLog(_ context.Context, log model.WorkLog) (*model.WorkLog, error) {
	log.ID = uuid.New()
	f.st.workLogs = append(f.st.workLogs, log)
	return &log, nil
}

func (f *fakeFieldworkStore) ListWorkLogs(_ context.Context, contractID uuid.UUID) ([]model.WorkLog, error) {
	var result []model.WorkLog
	for _, log := range f.st.workLogs {
		if log.ContractID == contractID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (f *fakeFieldworkStore) AddDC(_ context.Context, dc model.DC) (*model.DC, error) {
	dc.ID = uuid.New()
	f.st.dcs = append(f.st.dcs, dc)
	return &dc, nil
}

func (f *fakeFieldworkStore) ListDCs(_ context.Context, contractID uuid.UUID) ([]model.DC, error) {
	var result []model.DC
	for _, dc := range f.st.dcs {
		if dc.ContractID == contractID {
			result = append(result, dc)
		}
	}
	return result, nil
}
