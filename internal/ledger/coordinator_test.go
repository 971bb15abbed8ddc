package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

// ── Fixtures ──────────────────────────────────────────────────────────────────

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)

func newTestCoordinator(t *testing.T) (*Coordinator, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return New(st, fixedClock{t: testNow}), st
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cashInvoice(items ...model.InvoiceItem) model.Invoice {
	return model.Invoice{
		CustomerName: "عميل نقدي",
		CashierName:  "admin",
		Items:        items,
		DiscountType: model.DiscountFixed,
	}
}

func item(serviceID, name string, qty int, price string) model.InvoiceItem {
	return model.InvoiceItem{
		ServiceID:    serviceID,
		Name:         name,
		Quantity:     qty,
		PricePerUnit: dec(price),
	}
}

func seedTeacher(t *testing.T, st *store.Store, id, name string) {
	t.Helper()
	require.NoError(t, st.Update(func(s *store.State) error {
		s.Teachers = append(s.Teachers, model.Teacher{ID: id, Name: name})
		return nil
	}))
}

// invariants checks the cross-collection consistency rules that must hold
// after every coordinator operation.
func invariants(t *testing.T, st *store.Store) {
	t.Helper()
	snap := st.Snapshot()

	for _, d := range snap.Debts {
		assert.True(t, d.RemainingAmount.Equal(d.TotalDebt.Sub(d.PaidAmount)),
			"client %s: remaining != total - paid", d.CustomerName)
	}
	for _, te := range snap.Teachers {
		units := 0
		for _, h := range te.History {
			if h.EntryType == model.EntryDebt {
				units += h.Quantity
			}
		}
		assert.Equal(t, units, te.TotalDebt, "teacher %s: totalDebt not derived from history", te.Name)
		assert.Equal(t, te.TotalDebt-te.PaidAmount, te.RemainingAmount, "teacher %s", te.Name)
	}
	for _, inv := range snap.Invoices {
		for _, it := range inv.Items {
			want := it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity)))
			assert.True(t, it.Total.Equal(want), "invoice %s item %s", inv.ID, it.Name)
		}
	}
}

// ── AddInvoice ────────────────────────────────────────────────────────────────

func TestAddInvoiceGeneratesSequentialIDs(t *testing.T) {
	c, st := newTestCoordinator(t)

	first, err := c.AddInvoice(cashInvoice(item("s1", "طباعة A4", 2, "5")), false, false)
	require.NoError(t, err)
	second, err := c.AddInvoice(cashInvoice(item("s1", "طباعة A4", 1, "5")), false, false)
	require.NoError(t, err)

	assert.Equal(t, "20260314-001", first.ID)
	assert.Equal(t, "20260314-002", second.ID)
	assert.Equal(t, model.InvoicePaid, first.Status)
	invariants(t, st)
}

func TestAddInvoiceSkipsDeletedSequenceNumbers(t *testing.T) {
	c, _ := newTestCoordinator(t)

	first, err := c.AddInvoice(cashInvoice(item("s1", "تصوير", 1, "3")), false, false)
	require.NoError(t, err)
	_, err = c.AddInvoice(cashInvoice(item("s1", "تصوير", 1, "3")), false, false)
	require.NoError(t, err)
	require.NoError(t, c.DeleteInvoice(first.ID))

	third, err := c.AddInvoice(cashInvoice(item("s1", "تصوير", 1, "3")), false, false)
	require.NoError(t, err)
	assert.Equal(t, "20260314-003", third.ID)
}

func TestAddInvoiceDiscountMath(t *testing.T) {
	c, _ := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "بنر", 2, "100"))
	inv.DiscountType = model.DiscountPercent
	inv.DiscountValue = dec("10")
	got, err := c.AddInvoice(inv, false, false)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec("180")), "total = %s", got.Total)

	inv = cashInvoice(item("s1", "بنر", 1, "50"))
	inv.DiscountType = model.DiscountFixed
	inv.DiscountValue = dec("80")
	got, err = c.AddInvoice(inv, false, false)
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero(), "oversized discount must clamp to zero, got %s", got.Total)
}

func TestAddInvoiceRejectsEmptyItems(t *testing.T) {
	c, _ := newTestCoordinator(t)
	_, err := c.AddInvoice(cashInvoice(), false, false)
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestAddDebtInvoiceCreatesClientAccount(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "مذكرة فيزياء", 3, "20"))
	inv.CustomerName = "Ali"
	got, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Debts, 1)
	d := snap.Debts[0]
	assert.Equal(t, "Ali", d.CustomerName)
	assert.True(t, d.TotalDebt.Equal(dec("60")))
	assert.True(t, d.RemainingAmount.Equal(dec("60")))
	require.Len(t, d.History, 1)
	assert.Equal(t, "فاتورة #"+got.ID+": مذكرة فيزياء (3)", d.History[0].Service)
	assert.Equal(t, "عميل جديد - ترحيل آلي", d.History[0].Note)
	invariants(t, st)
}

func TestAddDebtInvoiceMatchesClientCaseInsensitively(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "طباعة", 1, "10"))
	inv.CustomerName = "Ali"
	_, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)

	inv = cashInvoice(item("s1", "طباعة", 2, "10"))
	inv.CustomerName = " ali "
	_, err = c.AddInvoice(inv, true, false)
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Debts, 1, "second sale must merge into the existing account")
	assert.True(t, snap.Debts[0].TotalDebt.Equal(dec("30")))
	assert.Equal(t, "ترحيل تلقائي من المبيعات", snap.Debts[0].History[1].Note)
}

func TestAddInvoiceFansOutTeacherHistory(t *testing.T) {
	c, st := newTestCoordinator(t)
	seedTeacher(t, st, "t-owner", "أ. محمد")
	seedTeacher(t, st, "t-debtor", "أ. سامي")

	it := item("s1", "مذكرة كيمياء", 4, "15")
	it.TeacherID = "t-owner"
	it.TeacherName = "أ. محمد"
	it.DebtTeacherID = "t-debtor"
	it.DebtTeacherName = "أ. سامي"
	it.OwnerTeacherName = "أ. محمد"

	inv := cashInvoice(it)
	inv.CustomerName = "أ. سامي"
	got, err := c.AddInvoice(inv, true, true)
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.Empty(t, snap.Debts, "teacher debt must not open a client account")

	var owner, debtor model.Teacher
	for _, te := range snap.Teachers {
		switch te.ID {
		case "t-owner":
			owner = te
		case "t-debtor":
			debtor = te
		}
	}
	require.Len(t, owner.History, 1)
	assert.Equal(t, model.EntryNotes, owner.History[0].EntryType)
	assert.Equal(t, 0, owner.TotalDebt, "NOTES entries never count as units owed")

	require.Len(t, debtor.History, 1)
	assert.Equal(t, model.EntryDebt, debtor.History[0].EntryType)
	assert.Equal(t, "أ. محمد", debtor.History[0].OwnerTeacherName)
	assert.Equal(t, got.ID, debtor.History[0].InvoiceID)
	assert.Equal(t, 4, debtor.TotalDebt)
	assert.Equal(t, 4, debtor.RemainingAmount)
	assert.True(t, debtor.History[0].Amount.IsZero())
	invariants(t, st)
}

// ── Full return ───────────────────────────────────────────────────────────────

func TestFullReturnCashInvoiceCreatesExpenseOnce(t *testing.T) {
	c, st := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 2, "25")), false, false)
	require.NoError(t, err)

	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned))
	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned)) // idempotent repeat

	snap := st.Snapshot()
	require.Len(t, snap.Expenses, 1)
	exp := snap.Expenses[0]
	assert.Equal(t, "RETURN_"+got.ID, exp.ID)
	assert.Equal(t, "مرتجع فاتورة #"+got.ID, exp.Title)
	assert.Equal(t, model.ExpenseReturns, exp.Category)
	assert.Equal(t, model.ExpenseReturnFull, exp.Kind)
	assert.Equal(t, got.ID, exp.SourceInvoiceID)
	assert.True(t, exp.Amount.Equal(dec("50")))
	assert.Equal(t, model.InvoiceReturned, snap.Invoices[0].Status)
	invariants(t, st)
}

func TestFullReturnDebtInvoiceReversesClientBalance(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "مذكرة", 2, "30"))
	inv.CustomerName = "Ali"
	got, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)
	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned))

	snap := st.Snapshot()
	assert.Empty(t, snap.Expenses, "debt return must not touch the cash register")
	require.Len(t, snap.Debts, 1)
	d := snap.Debts[0]
	assert.True(t, d.TotalDebt.IsZero())
	assert.True(t, d.RemainingAmount.IsZero())
	last := d.History[len(d.History)-1]
	assert.True(t, last.Amount.Equal(dec("-60")))
	assert.Equal(t, "إلغاء مديونية بسبب مرتجع", last.Note)
	invariants(t, st)
}

func TestFullReturnStripsHistoryFromAllTeachers(t *testing.T) {
	c, st := newTestCoordinator(t)
	seedTeacher(t, st, "t-owner", "أ. محمد")
	seedTeacher(t, st, "t-debtor", "أ. سامي")

	it := item("s1", "مذكرة", 5, "10")
	it.TeacherID = "t-owner"
	it.DebtTeacherID = "t-debtor"
	it.OwnerTeacherName = "أ. محمد"
	inv := cashInvoice(it)
	inv.CustomerName = "أ. سامي"
	got, err := c.AddInvoice(inv, true, true)
	require.NoError(t, err)

	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned))

	snap := st.Snapshot()
	for _, te := range snap.Teachers {
		assert.Empty(t, te.History, "teacher %s must lose the entries", te.Name)
		assert.Equal(t, 0, te.TotalDebt)
		assert.Equal(t, 0, te.RemainingAmount)
	}
	invariants(t, st)
}

func TestReturnedIsTerminal(t *testing.T) {
	c, _ := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 1, "5")), false, false)
	require.NoError(t, err)
	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned))

	err = c.SetInvoiceStatus(got.ID, model.InvoicePaid)
	assert.ErrorIs(t, err, ErrReactivate)
}

func TestFullReturnUnknownInvoice(t *testing.T) {
	c, _ := newTestCoordinator(t)
	err := c.SetInvoiceStatus("20260314-999", model.InvoiceReturned)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

// ── Partial return ────────────────────────────────────────────────────────────

func TestPartialReturnDebtInvoice(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "مذكرة", 3, "20"), item("s2", "تصوير", 2, "5"))
	inv.CustomerName = "Ali"
	got, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)

	refund, err := c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, refund.Equal(dec("20")))

	snap := st.Snapshot()
	cur := snap.Invoices[0]
	assert.Equal(t, model.InvoicePaid, cur.Status, "invoice stays PAID after a partial return")
	assert.True(t, cur.Total.Equal(dec("50")))
	require.Len(t, cur.Items, 2)
	assert.Equal(t, 2, cur.Items[0].Quantity)

	d := snap.Debts[0]
	assert.True(t, d.TotalDebt.Equal(dec("50")))
	last := d.History[len(d.History)-1]
	assert.Equal(t, "مرتجع جزئي فاتورة #"+got.ID, last.Service)
	assert.True(t, last.Amount.Equal(dec("-20")))
	assert.Equal(t, "مرتجع جزئي", last.Note)
	assert.Empty(t, snap.Expenses)
	invariants(t, st)
}

func TestPartialReturnCashInvoiceCreatesExpense(t *testing.T) {
	c, st := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "بنر", 4, "12.5")), false, false)
	require.NoError(t, err)

	refund, err := c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, refund.Equal(dec("25")))

	snap := st.Snapshot()
	require.Len(t, snap.Expenses, 1)
	exp := snap.Expenses[0]
	assert.Equal(t, "PARTIAL_RETURN_"+got.ID+"_25", exp.ID)
	assert.Equal(t, model.ExpenseReturnPartial, exp.Kind)
	assert.True(t, exp.Amount.Equal(dec("25")))
	invariants(t, st)
}

func TestPartialReturnClampsToAvailableQuantity(t *testing.T) {
	c, st := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 2, "10")), false, false)
	require.NoError(t, err)

	refund, err := c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 99}})
	require.NoError(t, err)
	assert.True(t, refund.Equal(dec("20")), "refund clamps to the 2 units on the line")

	snap := st.Snapshot()
	cur := snap.Invoices[0]
	assert.Empty(t, cur.Items, "fully-drained line is dropped")
	assert.True(t, cur.Total.IsZero())
	assert.Equal(t, model.InvoicePaid, cur.Status, "status never flips automatically")
}

func TestPartialReturnSameAmountTwiceDeduplicatesExpense(t *testing.T) {
	c, st := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 4, "10")), false, false)
	require.NoError(t, err)

	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	require.NoError(t, err)
	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Expenses, 1, "same invoice + same amount = one expense row")
	cur := snap.Invoices[0]
	assert.Equal(t, 2, cur.Items[0].Quantity, "both returns still shrink the line")
	assert.True(t, cur.Total.Equal(dec("20")))
}

func TestPartialReturnDifferentAmountsKeepsBothExpenses(t *testing.T) {
	c, st := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 5, "10")), false, false)
	require.NoError(t, err)

	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	require.NoError(t, err)
	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 2}})
	require.NoError(t, err)

	assert.Len(t, st.Snapshot().Expenses, 2)
}

func TestPartialReturnRebuildsTeacherHistory(t *testing.T) {
	c, st := newTestCoordinator(t)
	seedTeacher(t, st, "t-debtor", "أ. سامي")

	it := item("s1", "مذكرة", 5, "10")
	it.DebtTeacherID = "t-debtor"
	inv := cashInvoice(it)
	inv.CustomerName = "أ. سامي"
	got, err := c.AddInvoice(inv, true, true)
	require.NoError(t, err)

	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 2}})
	require.NoError(t, err)

	snap := st.Snapshot()
	te := snap.Teachers[0]
	require.Len(t, te.History, 1)
	assert.Equal(t, 3, te.History[0].Quantity)
	assert.Equal(t, 3, te.TotalDebt)
	assert.Equal(t, 3, te.RemainingAmount)
	invariants(t, st)
}

func TestPartialReturnRejectsReturnedInvoice(t *testing.T) {
	c, _ := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 1, "10")), false, false)
	require.NoError(t, err)
	require.NoError(t, c.SetInvoiceStatus(got.ID, model.InvoiceReturned))

	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvoiceReturned)
}

func TestPartialReturnRejectsEmptySelection(t *testing.T) {
	c, _ := newTestCoordinator(t)

	got, err := c.AddInvoice(cashInvoice(item("s1", "طباعة", 1, "10")), false, false)
	require.NoError(t, err)

	_, err = c.PartialReturn(got.ID, nil)
	assert.ErrorIs(t, err, ErrNothingToReturn)
	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "s1", Quantity: 0}})
	assert.ErrorIs(t, err, ErrNothingToReturn)
	_, err = c.PartialReturn(got.ID, []ReturnLine{{ServiceID: "missing", Quantity: 3}})
	assert.ErrorIs(t, err, ErrNothingToReturn)
}

// ── Delete ────────────────────────────────────────────────────────────────────

func TestDeleteInvoiceLeavesLedgersUntouched(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "مذكرة", 2, "15"))
	inv.CustomerName = "Ali"
	got, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)

	require.NoError(t, c.DeleteInvoice(got.ID))

	snap := st.Snapshot()
	assert.Empty(t, snap.Invoices)
	require.Len(t, snap.Debts, 1)
	assert.True(t, snap.Debts[0].TotalDebt.Equal(dec("30")), "delete performs no cleanup")

	assert.ErrorIs(t, c.DeleteInvoice(got.ID), ErrInvoiceNotFound)
}

// ── Payments and charges ──────────────────────────────────────────────────────

func TestRecordClientPayment(t *testing.T) {
	c, st := newTestCoordinator(t)

	inv := cashInvoice(item("s1", "مذكرة", 2, "50"))
	inv.CustomerName = "Ali"
	_, err := c.AddInvoice(inv, true, false)
	require.NoError(t, err)
	clientID := st.Snapshot().Debts[0].ID

	d, err := c.RecordClientPayment(clientID, dec("40"), "دفعة أولى")
	require.NoError(t, err)
	assert.True(t, d.PaidAmount.Equal(dec("40")))
	assert.True(t, d.RemainingAmount.Equal(dec("60")))
	require.Len(t, d.Payments, 1)
	assert.True(t, d.Payments[0].Date.Equal(testNow))

	_, err = c.RecordClientPayment(clientID, dec("100"), "")
	assert.ErrorIs(t, err, ErrExceedsRemaining)
	_, err = c.RecordClientPayment(clientID, dec("0"), "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = c.RecordClientPayment(clientID, dec("-5"), "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// paying exactly the remaining amount is allowed
	_, err = c.RecordClientPayment(clientID, dec("60"), "سداد كامل")
	require.NoError(t, err)
	invariants(t, st)
}

func TestAddClientCharge(t *testing.T) {
	c, st := newTestCoordinator(t)

	require.NoError(t, st.Update(func(s *store.State) error {
		s.Debts = append(s.Debts, model.ClientDebt{ID: "d1", CustomerName: "Ali"})
		return nil
	}))

	d, err := c.AddClientCharge("d1", "تغليف مذكرات", dec("35"), "شغل جديد")
	require.NoError(t, err)
	assert.True(t, d.TotalDebt.Equal(dec("35")))
	assert.True(t, d.RemainingAmount.Equal(dec("35")))
	require.Len(t, d.History, 1)
	assert.Equal(t, "تغليف مذكرات", d.History[0].Service)

	_, err = c.AddClientCharge("missing", "x", dec("1"), "")
	assert.ErrorIs(t, err, ErrClientNotFound)
	invariants(t, st)
}

// ── Teacher settlement and booking notes ──────────────────────────────────────

func TestSettleTeacherUnits(t *testing.T) {
	c, st := newTestCoordinator(t)
	seedTeacher(t, st, "t1", "أ. محمد")

	it := item("s1", "مذكرة", 10, "10")
	it.DebtTeacherID = "t1"
	inv := cashInvoice(it)
	inv.CustomerName = "أ. محمد"
	_, err := c.AddInvoice(inv, true, true)
	require.NoError(t, err)

	te, err := c.SettleTeacherUnits("t1", 6, "تسوية شهرية")
	require.NoError(t, err)
	assert.Equal(t, 6, te.PaidAmount)
	assert.Equal(t, 4, te.RemainingAmount)

	_, err = c.SettleTeacherUnits("t1", 5, "")
	assert.ErrorIs(t, err, ErrSettlementExceeds)
	_, err = c.SettleTeacherUnits("t1", 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	invariants(t, st)
}

func TestAppendBookingNotes(t *testing.T) {
	c, st := newTestCoordinator(t)
	seedTeacher(t, st, "t1", "أ. محمد")

	items := []model.BookingItem{
		{Type: model.BookingTeacherNote, TeacherID: "t1", Title: "مذكرة الجبر", Qty: 2},
		{Type: model.BookingExternalBook, Title: "كتاب خارجي", Qty: 1},
	}
	require.NoError(t, c.AppendBookingNotes("BK-2026-000001", items, testNow))

	te := st.Snapshot().Teachers[0]
	require.Len(t, te.History, 1, "external books never reach teacher histories")
	assert.Equal(t, "حجز مذكرة: مذكرة الجبر", te.History[0].ServiceName)
	assert.Equal(t, model.EntryNotes, te.History[0].EntryType)
	assert.Equal(t, "BK-2026-000001", te.History[0].InvoiceID)
	assert.Equal(t, 0, te.TotalDebt)
	invariants(t, st)
}

// ── Startup maintenance ───────────────────────────────────────────────────────

func TestStartupMaintenancePrunesOldInvoices(t *testing.T) {
	c, st := newTestCoordinator(t)

	require.NoError(t, st.Update(func(s *store.State) error {
		s.Invoices = []model.Invoice{
			{ID: "20250101-001", Date: testNow.AddDate(0, -8, 0), Status: model.InvoicePaid},
			{ID: "20260301-001", Date: testNow.AddDate(0, 0, -13), Status: model.InvoicePaid},
		}
		return nil
	}))

	require.NoError(t, c.StartupMaintenance())

	snap := st.Snapshot()
	require.Len(t, snap.Invoices, 1)
	assert.Equal(t, "20260301-001", snap.Invoices[0].ID)
}

func TestStartupMaintenanceDedupesLegacyReturnExpenses(t *testing.T) {
	c, st := newTestCoordinator(t)

	require.NoError(t, st.Update(func(s *store.State) error {
		s.Expenses = []model.Expense{
			{ID: "e1", Title: "مرتجع فاتورة #20260101-001", Amount: dec("50"), Kind: model.ExpenseReturnFull, SourceInvoiceID: "20260101-001"},
			{ID: "e2", Title: "مرتجع فاتورة #20260101-001", Amount: dec("50"), Kind: model.ExpenseReturnFull, SourceInvoiceID: "20260101-001"},
			{ID: "e3", Title: "مرتجع فاتورة #20260101-002", Amount: dec("30")}, // legacy row, no kind
			{ID: "e4", Title: "مرتجع فاتورة #20260101-002", Amount: dec("30")},
			{ID: "e5", Title: "إيجار المحل", Amount: dec("1000"), Kind: model.ExpenseManual},
			{ID: "e6", Title: "إيجار المحل", Amount: dec("1000"), Kind: model.ExpenseManual},
		}
		return nil
	}))

	require.NoError(t, c.StartupMaintenance())

	snap := st.Snapshot()
	ids := make([]string, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e3", "e5", "e6"}, ids, "manual rows are never deduplicated")
}

// ── Concurrency guard ─────────────────────────────────────────────────────────

func TestInFlightGuardSwallowsConcurrentDuplicate(t *testing.T) {
	c, _ := newTestCoordinator(t)

	require.True(t, c.acquire("20260314-001"))
	err := c.SetInvoiceStatus("20260314-001", model.InvoiceReturned)
	assert.NoError(t, err, "in-flight duplicate must be silently dropped")

	_, err = c.PartialReturn("20260314-001", []ReturnLine{{ServiceID: "s1", Quantity: 1}})
	assert.NoError(t, err)
	c.release("20260314-001")

	// once released, the real not-found error surfaces again
	err = c.SetInvoiceStatus("20260314-001", model.InvoiceReturned)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
