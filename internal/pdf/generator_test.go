package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epcorn/pestops-contracts/internal/model"
)

func TestGenerate(t *testing.T) {
	number := "CT/2026/0003"
	contract := model.Contract{
		ID:           uuid.New(),
		ContractNo:   &number,
		ContractDate: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		BillToAddress: model.Address{
			Name:    "Acme Estates Pvt Ltd",
			Address: "12 Marine Drive",
			City:    "Mumbai",
			Pincode: "400002",
		},
		ShipToAddress: model.Address{
			Name:        "Acme Towers",
			ProjectName: "Acme Towers Phase 1",
		},
		QuoteInfos: []model.QuoteInfo{
			{Chemical: "Imidachloprid 30.5%", WorkArea: "4500", WorkAreaUnit: "sqft", ServiceRate: 12.5, ServiceRateUnit: "per sqft"},
		},
		PaymentTerms: "30 days",
	}

	content, err := NewGenerator().Generate(contract)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestGenerateDraft(t *testing.T) {
	content, err := NewGenerator().Generate(model.Contract{ID: uuid.New()})
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
