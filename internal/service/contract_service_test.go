package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epcorn/pestops-contracts/internal/config"
	"github.com/epcorn/pestops-contracts/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Numbering: config.NumberingConfig{ContractPrefix: "CT", QuotationPrefix: "QT"},
	}
}

func newContractFixture() (*ContractService, *memState) {
	st := newMemState()
	svc := NewContractService(
		&fakeContractStore{st: st},
		&fakeQuoteInfoStore{st: st},
		&fakeRevisionStore{st: st},
		&fakeSequenceStore{st: st},
		&fakeFieldworkStore{st: st},
		testConfig(),
	)
	svc.now = func() time.Time { return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC) }
	return svc, st
}

func seedContract(t *testing.T, svc *ContractService, author uuid.UUID) *model.Contract {
	t.Helper()
	contract, err := svc.Create(context.Background(), CreateContractInput{
		Contract: model.Contract{
			Note: "initial",
			ShipToAddress: model.Address{
				Name:        "Acme Towers",
				ProjectName: "Acme Towers Phase 1",
			},
		},
		QuoteInfos: []model.QuoteInfoInput{
			{IsNew: true, Chemical: "Imidachloprid 30.5%", WorkArea: "4500", WorkAreaUnit: "sqft"},
			{IsNew: true, Chemical: "Chlorpyriphos 20%", WorkArea: "1200", WorkAreaUnit: "rft"},
		},
		AuthorID: author,
	})
	require.NoError(t, err)
	require.Len(t, contract.QuoteInfos, 2)
	return contract
}

func updateInputFrom(contract *model.Contract, author uuid.UUID) UpdateContractInput {
	inputs := make([]model.QuoteInfoInput, 0, len(contract.QuoteInfos))
	for _, info := range contract.QuoteInfos {
		inputs = append(inputs, model.QuoteInfoInput{
			ID:              info.ID,
			Chemical:        info.Chemical,
			WorkArea:        info.WorkArea,
			WorkAreaUnit:    info.WorkAreaUnit,
			ServiceRate:     info.ServiceRate,
			ServiceRateUnit: info.ServiceRateUnit,
			Packaging:       info.Packaging,
			BatchNos:        info.BatchNos,
		})
	}
	return UpdateContractInput{
		ID:          contract.ID,
		BaseVersion: contract.Version,
		Fields: model.ContractUpdate{
			ContractDate:  contract.ContractDate,
			SalesPersonID: contract.SalesPersonID,
			BillToAddress: contract.BillToAddress,
			ShipToAddress: contract.ShipToAddress,
			EmailTo:       contract.EmailTo,
			Note:          contract.Note,
			WorkOrderNo:   contract.WorkOrderNo,
			WorkOrderDate: contract.WorkOrderDate,
			GSTNo:         contract.GSTNo,
			PaymentTerms:  contract.PaymentTerms,
		},
		QuoteInfos: inputs,
		AuthorID:   author,
	}
}

func TestContractCreate(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()

	contract := seedContract(t, svc, author)

	assert.False(t, contract.Approved)
	assert.Nil(t, contract.ContractNo)
	assert.Equal(t, int64(1), contract.Version)
	assert.Equal(t, author, contract.CreatedByID)
	assert.Len(t, st.quoteInfos, 2)
}

func TestContractApproveAssignsNumberOnce(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	approved, err := svc.Approve(context.Background(), contract.ID, author)
	require.NoError(t, err)
	require.NotNil(t, approved.ContractNo)
	assert.Equal(t, "CT/2026/0001", *approved.ContractNo)
	assert.True(t, approved.Approved)

	revisions := st.revisionsFor(model.RevisionDocContract, contract.ID)
	require.Len(t, revisions, 1)
	assert.Equal(t, "Approved", revisions[0].Message)

	// The baseline snapshot captures the draft, before any number existed.
	var baseline model.Contract
	require.NoError(t, json.Unmarshal(revisions[0].Snapshot, &baseline))
	assert.Nil(t, baseline.ContractNo)
	assert.False(t, baseline.Approved)

	_, err = svc.Approve(context.Background(), contract.ID, author)
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	// A failed re-approve leaves no extra archive entry and keeps the number.
	assert.Len(t, st.revisionsFor(model.RevisionDocContract, contract.ID), 1)
	after, err := svc.Get(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "CT/2026/0001", *after.ContractNo)
}

// staleReadContractStore serves a frozen pre-approval read, simulating a
// second approver acting on state that another request has since changed.
type staleReadContractStore struct {
	ContractStore
	stale model.Contract
}

func (s *staleReadContractStore) GetByID(_ context.Context, _ uuid.UUID) (*model.Contract, error) {
	stale := s.stale
	return &stale, nil
}

func TestApproveRaceStampsNumberOnce(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)
	draft := *contract

	approved, err := svc.Approve(context.Background(), contract.ID, author)
	require.NoError(t, err)
	require.Equal(t, "CT/2026/0001", *approved.ContractNo)

	// A second approver read the draft before the first one stamped it; the
	// store refuses the second stamp and the number survives.
	racer := NewContractService(
		&staleReadContractStore{ContractStore: &fakeContractStore{st: st}, stale: draft},
		&fakeQuoteInfoStore{st: st},
		&fakeRevisionStore{st: st},
		&fakeSequenceStore{st: st},
		&fakeFieldworkStore{st: st},
		testConfig(),
	)
	racer.now = svc.now

	_, err = racer.Approve(context.Background(), contract.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	after, err := svc.Get(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "CT/2026/0001", *after.ContractNo)
}

func TestContractNumberSequence(t *testing.T) {
	svc, _ := newContractFixture()
	author := uuid.New()

	first := seedContract(t, svc, author)
	second := seedContract(t, svc, author)

	approvedFirst, err := svc.Approve(context.Background(), first.ID, author)
	require.NoError(t, err)
	approvedSecond, err := svc.Approve(context.Background(), second.ID, author)
	require.NoError(t, err)

	assert.Equal(t, "CT/2026/0001", *approvedFirst.ContractNo)
	assert.Equal(t, "CT/2026/0002", *approvedSecond.ContractNo)
}

func TestDraftUpdateDeletesRemovedLineItems(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	keptID := contract.QuoteInfos[0].ID
	removedID := contract.QuoteInfos[1].ID

	input := updateInputFrom(contract, author)
	input.QuoteInfos = []model.QuoteInfoInput{
		{ID: keptID, Chemical: "Imidachloprid 30.5%", WorkArea: "5000", WorkAreaUnit: "sqft"},
		{IsNew: true, Chemical: "Cypermethrin 25%", WorkArea: "800", WorkAreaUnit: "rft"},
	}

	updated, err := svc.Update(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, updated.QuoteInfos, 2)

	assert.Equal(t, keptID, updated.QuoteInfos[0].ID)
	assert.Equal(t, "5000", updated.QuoteInfos[0].WorkArea)
	assert.NotEqual(t, removedID, updated.QuoteInfos[1].ID)

	// Draft orphans are gone for good, and no archive entry was written.
	_, ok := st.quoteInfos[removedID]
	assert.False(t, ok)
	assert.Empty(t, st.revisionsFor(model.RevisionDocContract, contract.ID))
	assert.Equal(t, int64(2), updated.Version)
}

func TestApprovedUpdateArchivesPriorState(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	approved, err := svc.Approve(context.Background(), contract.ID, author)
	require.NoError(t, err)

	keptID := approved.QuoteInfos[0].ID
	removedID := approved.QuoteInfos[1].ID

	input := updateInputFrom(approved, author)
	input.Fields.Note = "revised terms"
	input.Message = "Client renegotiated"
	input.ModifiedFields = []string{"note", "quoteInfo"}
	input.QuoteInfos = []model.QuoteInfoInput{
		{ID: keptID, Chemical: "Imidachloprid 30.5%", WorkArea: "4500", WorkAreaUnit: "sqft"},
	}

	updated, err := svc.Update(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "revised terms", updated.Note)
	require.Len(t, updated.QuoteInfos, 1)

	revisions := st.revisionsFor(model.RevisionDocContract, contract.ID)
	require.Len(t, revisions, 2) // approval baseline + this update

	var prior model.Contract
	require.NoError(t, json.Unmarshal(revisions[1].Snapshot, &prior))
	assert.Equal(t, "initial", prior.Note)
	assert.Len(t, prior.QuoteInfos, 2)
	assert.Equal(t, "Client renegotiated", revisions[1].Message)
	assert.Equal(t, []string{"note", "quoteInfo"}, revisions[1].ModifiedFields)

	// Removed line items survive on an approved contract; old snapshots still
	// reference them.
	_, ok := st.quoteInfos[removedID]
	assert.True(t, ok)
}

func TestUpdateVersionConflict(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	stale := updateInputFrom(contract, author)
	stale.BaseVersion = contract.Version - 1

	_, err := svc.Update(context.Background(), stale)
	assert.ErrorIs(t, err, ErrConflict)

	// Nothing moved: same version, no archive entry.
	current, err := svc.Get(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.Version, current.Version)
	assert.Empty(t, st.revisionsFor(model.RevisionDocContract, contract.ID))
}

func TestApprovedUpdateAbortsWhenArchiveFails(t *testing.T) {
	svc, st := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	_, err := svc.Approve(context.Background(), contract.ID, author)
	require.NoError(t, err)
	approved, err := svc.Get(context.Background(), contract.ID)
	require.NoError(t, err)

	st.failRecord = true
	input := updateInputFrom(approved, author)
	input.Fields.Note = "should never land"

	_, err = svc.Update(context.Background(), input)
	require.Error(t, err)

	current, err := svc.Get(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "initial", current.Note)
	assert.Equal(t, approved.Version, current.Version)
}

func TestUpdateRejectsLineItemWithoutIdentity(t *testing.T) {
	svc, _ := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	input := updateInputFrom(contract, author)
	input.QuoteInfos = []model.QuoteInfoInput{{Chemical: "Unknown"}}

	_, err := svc.Update(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRejectsUnknownLineItem(t *testing.T) {
	svc, _ := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	input := updateInputFrom(contract, author)
	input.QuoteInfos = []model.QuoteInfoInput{{ID: uuid.New(), Chemical: "Ghost"}}

	_, err := svc.Update(context.Background(), input)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissingContract(t *testing.T) {
	svc, _ := newContractFixture()

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncPrintCount(t *testing.T) {
	svc, _ := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	printed, err := svc.IncPrintCount(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, printed.PrintCount)

	printed, err = svc.IncPrintCount(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, printed.PrintCount)
}

func TestWorkLogRequiresExistingContract(t *testing.T) {
	svc, _ := newContractFixture()

	_, err := svc.AddWorkLog(context.Background(), uuid.New(), model.WorkLog{Chemical: "Imidachloprid"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkLogAndDCRoundTrip(t *testing.T) {
	svc, _ := newContractFixture()
	author := uuid.New()
	contract := seedContract(t, svc, author)

	_, err := svc.AddWorkLog(context.Background(), contract.ID, model.WorkLog{
		WorkAreaType: "basement",
		Chemical:     "Imidachloprid 30.5%",
		EntryByID:    author,
	})
	require.NoError(t, err)

	logs, err := svc.WorkLogs(context.Background(), contract.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, contract.ID, logs[0].ContractID)

	_, err = svc.AddDC(context.Background(), contract.ID, model.DC{
		Chemical:    "Imidachloprid 30.5%",
		BatchNumber: "B-1021",
		EntryByID:   author,
	})
	require.NoError(t, err)

	dcs, err := svc.DCs(context.Background(), contract.ID)
	require.NoError(t, err)
	require.Len(t, dcs, 1)
	assert.Equal(t, "B-1021", dcs[0].BatchNumber)
}
