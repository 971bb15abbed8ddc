package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahdyy18/center-five-system/internal/model"
)

func TestOpenEmptyDirectory(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	snap := st.Snapshot()
	assert.Empty(t, snap.Invoices)
	assert.Empty(t, snap.Debts)
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)

	inv := model.Invoice{
		ID:           "20260314-001",
		CustomerName: "عميل نقدي",
		Date:         time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Total:        decimal.NewFromInt(50),
		Status:       model.InvoicePaid,
	}
	require.NoError(t, st.Update(func(s *State) error {
		s.Invoices = append(s.Invoices, inv)
		return nil
	}))

	// collection file exists on disk under its legacy key
	_, err = os.Stat(filepath.Join(dir, "cf_invoices.json"))
	require.NoError(t, err)

	// a fresh store sees the committed state
	st2, err := Open(dir)
	require.NoError(t, err)
	snap := st2.Snapshot()
	require.Len(t, snap.Invoices, 1)
	assert.Equal(t, "20260314-001", snap.Invoices[0].ID)
	assert.True(t, snap.Invoices[0].Total.Equal(decimal.NewFromInt(50)))
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = st.Update(func(s *State) error {
		s.Invoices = append(s.Invoices, model.Invoice{ID: "x"})
		s.Debts = append(s.Debts, model.ClientDebt{ID: "y"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	snap := st.Snapshot()
	assert.Empty(t, snap.Invoices, "failed update must leave no trace")
	assert.Empty(t, snap.Debts)
}

func TestSnapshotIsIsolated(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Update(func(s *State) error {
		s.Teachers = append(s.Teachers, model.Teacher{ID: "t1", Name: "أ. محمد"})
		return nil
	}))

	snap := st.Snapshot()
	snap.Teachers[0].Name = "changed"

	assert.Equal(t, "أ. محمد", st.Snapshot().Teachers[0].Name, "mutating a snapshot must not leak into the store")
}

func TestOpenSkipsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cf_invoices.json"), []byte("{not json"), 0o644))

	st, err := Open(dir)
	require.NoError(t, err, "corrupt collection must not fail startup")
	assert.Empty(t, st.Snapshot().Invoices)
}

func TestReplaceAndReset(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)

	next := State{
		Services: []model.Service{{ID: "s1", Name: "طباعة A4", Category: model.CategoryA4}},
		Staff:    []model.Staff{{ID: "m1", Name: "أحمد"}},
	}
	require.NoError(t, st.Replace(next))
	snap := st.Snapshot()
	require.Len(t, snap.Services, 1)
	require.Len(t, snap.Staff, 1)

	require.NoError(t, st.Reset())
	snap = st.Snapshot()
	assert.Empty(t, snap.Services)
	assert.Empty(t, snap.Staff)

	// reset is persisted, not just in memory
	st2, err := Open(dir)
	require.NoError(t, err)
	assert.Empty(t, st2.Snapshot().Services)
}

func TestPing(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, st.Ping())
}
