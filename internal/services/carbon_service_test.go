package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecoinsure/internal/models"
	"ecoinsure/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRecord_StaysPendingWithoutLedger(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)

	rec, err := svc.AddRecord(context.Background(), models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Source: "Plant A boiler", Scope: models.Scope1, Amount: 42.5,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CarbonPending, rec.Status)
	assert.Nil(t, rec.BlockchainHash, "no ledger connection means no hash")
	assert.NotEmpty(t, rec.ID)
}

func TestAddRecord_BackfilledIsImportedVerified(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)

	past := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	rec, err := svc.AddRecord(context.Background(), models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Date: &past, Source: "Historic import",
		Scope: models.Scope2, Amount: 10, Backfilled: true,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CarbonVerified, rec.Status)
	assert.Equal(t, past, rec.Date)
}

func TestAddRecord_ValidatesInput(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, models.CreateCarbonRecordRequest{
		CompanyID: "", Scope: models.Scope1, Amount: 1,
	})
	require.Error(t, err)

	_, err = svc.AddRecord(ctx, models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Scope: "scope_4", Amount: 1,
	})
	require.Error(t, err)

	_, err = svc.AddRecord(ctx, models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Scope: models.Scope1, Amount: -3,
	})
	require.Error(t, err)
}

func TestListByCompany_ReturnsOnlyThatCompany(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, models.CreateCarbonRecordRequest{CompanyID: "comp-1", Scope: models.Scope1, Amount: 1, Source: "a"})
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, models.CreateCarbonRecordRequest{CompanyID: "comp-2", Scope: models.Scope2, Amount: 2, Source: "b"})
	require.NoError(t, err)
	newest, err := svc.AddRecord(ctx, models.CreateCarbonRecordRequest{CompanyID: "comp-1", Scope: models.Scope3, Amount: 3, Source: "c"})
	require.NoError(t, err)

	records, err := svc.ListByCompany(ctx, "comp-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newest.ID, records[0].ID, "newest entry listed first")
}

func TestDeleteRecord(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	ctx := context.Background()

	rec, err := svc.AddRecord(ctx, models.CreateCarbonRecordRequest{CompanyID: "comp-1", Scope: models.Scope1, Amount: 1, Source: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecord(ctx, rec.ID))
	assert.ErrorIs(t, svc.DeleteRecord(ctx, rec.ID), store.ErrNotFound)

	records, err := svc.ListByCompany(ctx, "comp-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAddRecord_VerifiedOnceLedgerAttached(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	ledger := &stubLedger{}
	svc.AttachLedger(ledger)

	rec, err := svc.AddRecord(context.Background(), models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Source: "Plant A boiler", Scope: models.Scope1, Amount: 42.5,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CarbonVerified, rec.Status)
	require.NotNil(t, rec.BlockchainHash)
	assert.Regexp(t, "^0x[0-9a-f]+$", *rec.BlockchainHash)
	assert.Len(t, ledger.rows, 1)
}

func TestAddRecord_LedgerFailureKeepsPending(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	svc.AttachLedger(&stubLedger{createErr: errors.New("connection reset")})

	rec, err := svc.AddRecord(context.Background(), models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Source: "Plant A boiler", Scope: models.Scope1, Amount: 42.5,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CarbonPending, rec.Status, "a failed mirror write must not mark the record verified")
	assert.Nil(t, rec.BlockchainHash)
}

func TestLedgerHistory_AvailableAfterAttach(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)
	ctx := context.Background()

	_, err := svc.LedgerHistory(ctx, "comp-1")
	require.ErrorIs(t, err, ErrLedgerUnavailable)

	svc.AttachLedger(&stubLedger{})
	rec, err := svc.AddRecord(ctx, models.CreateCarbonRecordRequest{
		CompanyID: "comp-1", Source: "Plant A boiler", Scope: models.Scope1, Amount: 10,
	})
	require.NoError(t, err)

	history, err := svc.LedgerHistory(ctx, "comp-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestSupplyChain_SeededNetwork(t *testing.T) {
	svc := NewCarbonService(newCarbonStore(), nil)

	nodes := svc.SupplyChain()
	require.Len(t, nodes, 4)
	assert.Equal(t, models.SupplyChainSupplier, nodes[0].Role)
}
