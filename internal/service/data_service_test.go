package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

func newDataFixture(t *testing.T) (DataService, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return NewDataService(st, fixedClock{t: testNow}), st
}

func seedSampleState(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.Update(func(s *store.State) error {
		s.Services = []model.Service{{ID: "s1", Name: "طباعة A4", Price: dec("2"), Category: model.CategoryA4}}
		s.Invoices = []model.Invoice{{
			ID:           "20260314-001",
			CustomerName: "Ali",
			CashierName:  "admin",
			Date:         testNow,
			Items: []model.InvoiceItem{{
				ServiceID: "s1", Name: "طباعة A4", Quantity: 3,
				PricePerUnit: dec("2"), Total: dec("6"),
			}},
			Subtotal: dec("6"), Total: dec("6"),
			Status: model.InvoicePaid, IsDebt: true,
		}}
		s.Debts = []model.ClientDebt{{
			ID: "d1", CustomerName: "Ali",
			TotalDebt: dec("6"), PaidAmount: dec("0"), RemainingAmount: dec("6"),
			History: []model.DebtEntry{{Service: "فاتورة #20260314-001: طباعة A4 (3)", Amount: dec("6"), Date: testNow}},
		}}
		s.Teachers = []model.Teacher{{ID: "t1", Name: "أ. محمد"}}
		s.Expenses = []model.Expense{{ID: "e1", Title: "إيجار", Amount: dec("1000"), Date: testNow, Category: model.ExpenseGeneral, Kind: model.ExpenseManual}}
		return nil
	}))
}

func TestJSONExportImportRoundTrip(t *testing.T) {
	svc, st := newDataFixture(t)
	seedSampleState(t, st)

	payload, err := svc.ExportJSON()
	require.NoError(t, err)

	// import into a fresh store
	svc2, st2 := newDataFixture(t)
	summary, err := svc2.ImportJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Collections["invoices"])
	assert.Equal(t, 1, summary.Collections["debts"])

	snap := st2.Snapshot()
	require.Len(t, snap.Invoices, 1)
	inv := snap.Invoices[0]
	assert.Equal(t, "20260314-001", inv.ID)
	assert.True(t, inv.Total.Equal(dec("6")))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 3, inv.Items[0].Quantity)
	assert.True(t, snap.Debts[0].RemainingAmount.Equal(dec("6")))
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	svc, _ := newDataFixture(t)
	_, err := svc.ImportJSON([]byte("not json at all"))
	assert.Error(t, err)
}

func TestImportJSONToleratesMissingCollections(t *testing.T) {
	svc, st := newDataFixture(t)
	seedSampleState(t, st)

	// an old backup with only services
	_, err := svc.ImportJSON([]byte(`{"timestamp":"2026-01-01T00:00:00Z","services":[{"id":"s9","name":"بنر","category":"Banner"}]}`))
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Services, 1)
	assert.Equal(t, "s9", snap.Services[0].ID)
	assert.Empty(t, snap.Invoices, "import replaces the whole state")
}

func TestXLSXExportImportRoundTrip(t *testing.T) {
	svc, st := newDataFixture(t)
	seedSampleState(t, st)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(&buf))

	svc2, st2 := newDataFixture(t)
	summary, err := svc2.ImportXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Collections["services"])
	assert.Equal(t, 1, summary.Collections["invoices"])

	snap := st2.Snapshot()
	require.Len(t, snap.Invoices, 1)
	inv := snap.Invoices[0]
	assert.Equal(t, "20260314-001", inv.ID)
	require.Len(t, inv.Items, 1, "nested item lists survive the cell round trip")
	assert.Equal(t, "طباعة A4", inv.Items[0].Name)
	assert.True(t, inv.Total.Equal(dec("6")))
}

func TestReset(t *testing.T) {
	svc, st := newDataFixture(t)
	seedSampleState(t, st)

	require.NoError(t, svc.Reset())
	snap := st.Snapshot()
	assert.Empty(t, snap.Invoices)
	assert.Empty(t, snap.Services)
	assert.Empty(t, snap.Debts)
}
