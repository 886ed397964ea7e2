package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epcorn/pestops-contracts/internal/model"
)

func newQuotationFixture() (*QuotationService, *ContractService, *memState) {
	st := newMemState()
	cfg := testConfig()
	contracts := NewContractService(
		&fakeContractStore{st: st},
		&fakeQuoteInfoStore{st: st},
		&fakeRevisionStore{st: st},
		&fakeSequenceStore{st: st},
		&fakeFieldworkStore{st: st},
		cfg,
	)
	quotations := NewQuotationService(
		&fakeQuotationStore{st: st},
		&fakeContractStore{st: st},
		&fakeQuoteInfoStore{st: st},
		&fakeRevisionStore{st: st},
		&fakeSequenceStore{st: st},
		cfg,
	)
	fixed := func() time.Time { return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC) }
	contracts.now = fixed
	quotations.now = fixed
	return quotations, contracts, st
}

func seedQuotation(t *testing.T, svc *QuotationService, author uuid.UUID) *model.Quotation {
	t.Helper()
	quotation, err := svc.Create(context.Background(), CreateQuotationInput{
		Quotation: model.Quotation{
			Note: "initial",
			ShipToAddress: model.Address{
				Name:        "Sunrise Heights",
				ProjectName: "Sunrise Heights Tower B",
			},
		},
		QuoteInfos: []model.QuoteInfoInput{
			{IsNew: true, Chemical: "Imidachloprid 30.5%", WorkArea: "3000", WorkAreaUnit: "sqft"},
		},
		AuthorID: author,
	})
	require.NoError(t, err)
	require.Len(t, quotation.QuoteInfos, 1)
	return quotation
}

func TestQuotationApprove(t *testing.T) {
	svc, _, st := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	approved, err := svc.Approve(context.Background(), quotation.ID, author)
	require.NoError(t, err)
	require.NotNil(t, approved.QuotationNo)
	assert.Equal(t, "QT/2026/0001", *approved.QuotationNo)

	revisions := st.revisionsFor(model.RevisionDocQuotation, quotation.ID)
	require.Len(t, revisions, 1)
	assert.Equal(t, "Approved", revisions[0].Message)

	_, err = svc.Approve(context.Background(), quotation.ID, author)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Len(t, st.revisionsFor(model.RevisionDocQuotation, quotation.ID), 1)
}

func TestContractifyClonesLineItems(t *testing.T) {
	svc, contracts, _ := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	_, err := svc.Approve(context.Background(), quotation.ID, author)
	require.NoError(t, err)

	contract, err := svc.Contractify(context.Background(), quotation.ID, author)
	require.NoError(t, err)

	require.NotNil(t, contract.QuotationID)
	assert.Equal(t, quotation.ID, *contract.QuotationID)
	assert.False(t, contract.Approved)
	assert.Nil(t, contract.ContractNo)

	// The contract owns fresh copies, not the quotation's rows.
	require.Len(t, contract.QuoteInfos, 1)
	assert.NotEqual(t, quotation.QuoteInfos[0].ID, contract.QuoteInfos[0].ID)
	assert.Equal(t, quotation.QuoteInfos[0].Chemical, contract.QuoteInfos[0].Chemical)

	after, err := svc.Get(context.Background(), quotation.ID)
	require.NoError(t, err)
	assert.True(t, after.Contractified)

	// The new contract goes through the normal draft flow.
	_, err = contracts.Approve(context.Background(), contract.ID, author)
	require.NoError(t, err)
}

func TestContractifyOnlyOnce(t *testing.T) {
	svc, _, _ := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	_, err := svc.Approve(context.Background(), quotation.ID, author)
	require.NoError(t, err)
	_, err = svc.Contractify(context.Background(), quotation.ID, author)
	require.NoError(t, err)

	_, err = svc.Contractify(context.Background(), quotation.ID, author)
	assert.ErrorIs(t, err, ErrAlreadyContractified)
}

func TestContractifyRequiresApproval(t *testing.T) {
	svc, _, _ := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	_, err := svc.Contractify(context.Background(), quotation.ID, author)
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestApprovedQuotationUpdateArchivesPriorState(t *testing.T) {
	svc, _, st := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	approved, err := svc.Approve(context.Background(), quotation.ID, author)
	require.NoError(t, err)

	input := UpdateQuotationInput{
		ID:          approved.ID,
		BaseVersion: approved.Version,
		Fields: model.ContractUpdate{
			ContractDate:  approved.QuotationDate,
			SalesPersonID: approved.SalesPersonID,
			BillToAddress: approved.BillToAddress,
			ShipToAddress: approved.ShipToAddress,
			Note:          "revised",
		},
		QuoteInfos: []model.QuoteInfoInput{{
			ID:       approved.QuoteInfos[0].ID,
			Chemical: approved.QuoteInfos[0].Chemical,
			WorkArea: "3500",
		}},
		AuthorID: author,
		Message:  "Area remeasured",
	}

	updated, err := svc.Update(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Note)

	revisions := st.revisionsFor(model.RevisionDocQuotation, quotation.ID)
	require.Len(t, revisions, 2)

	var prior model.Quotation
	require.NoError(t, json.Unmarshal(revisions[1].Snapshot, &prior))
	assert.Equal(t, "initial", prior.Note)
	assert.Equal(t, "3000", prior.QuoteInfos[0].WorkArea)
}

func TestDraftQuotationUpdateDeletesRemovedLineItems(t *testing.T) {
	svc, _, st := newQuotationFixture()
	author := uuid.New()

	quotation, err := svc.Create(context.Background(), CreateQuotationInput{
		Quotation: model.Quotation{Note: "initial"},
		QuoteInfos: []model.QuoteInfoInput{
			{IsNew: true, Chemical: "Imidachloprid 30.5%"},
			{IsNew: true, Chemical: "Chlorpyriphos 20%"},
		},
		AuthorID: author,
	})
	require.NoError(t, err)
	require.Len(t, quotation.QuoteInfos, 2)

	keptID := quotation.QuoteInfos[0].ID
	removedID := quotation.QuoteInfos[1].ID

	updated, err := svc.Update(context.Background(), UpdateQuotationInput{
		ID:          quotation.ID,
		BaseVersion: quotation.Version,
		Fields:      model.ContractUpdate{Note: "trimmed"},
		QuoteInfos: []model.QuoteInfoInput{
			{ID: keptID, Chemical: "Imidachloprid 30.5%"},
			{IsNew: true, Chemical: "Cypermethrin 25%"},
		},
		AuthorID: author,
	})
	require.NoError(t, err)
	require.Len(t, updated.QuoteInfos, 2)

	_, ok := st.quoteInfos[removedID]
	assert.False(t, ok)
	assert.Empty(t, st.revisionsFor(model.RevisionDocQuotation, quotation.ID))
}

func TestQuotationUpdateVersionConflict(t *testing.T) {
	svc, _, _ := newQuotationFixture()
	author := uuid.New()
	quotation := seedQuotation(t, svc, author)

	_, err := svc.Update(context.Background(), UpdateQuotationInput{
		ID:          quotation.ID,
		BaseVersion: quotation.Version + 5,
		AuthorID:    author,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSimilarProjects(t *testing.T) {
	svc, _, _ := newQuotationFixture()
	author := uuid.New()
	seedQuotation(t, svc, author)

	projects, err := svc.SimilarProjects(context.Background(), "sunrise")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunrise Heights Tower B"}, projects)

	_, err = svc.SimilarProjects(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
