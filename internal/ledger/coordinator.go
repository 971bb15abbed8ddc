// Package ledger is the consistency coordinator for the four money-bearing
// collections: invoices, client debts, teacher consignment histories and the
// expense register. Every financial mutation in the system goes through a
// Coordinator method; each method computes the full next state inside one
// store.Update pass, so the four collections either all move together or not
// at all.
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

// Clock supplies zone-pinned timestamps; injected so the civil-time policy
// (Africa/Cairo in production) stays out of the ledger rules.
type Clock interface {
	Now() time.Time
}

var (
	ErrInvoiceNotFound   = errors.New("الفاتورة غير موجودة")
	ErrClientNotFound    = errors.New("العميل غير موجود")
	ErrInvoiceReturned   = errors.New("لا يمكن عمل مرتجع جزئي لفاتورة مرتجعة بالكامل")
	ErrNothingToReturn   = errors.New("لم يتم اختيار أي كمية صحيحة للمرتجع")
	ErrReactivate        = errors.New("لا يمكن إعادة تفعيل فاتورة مرتجعة")
	ErrInvalidAmount     = errors.New("يرجى إدخال مبلغ صحيح أكبر من صفر")
	ErrExceedsRemaining  = errors.New("المبلغ المدخل أكبر من المتبقي")
	ErrEmptyInvoice      = errors.New("لا يمكن إنشاء فاتورة بدون أصناف")
	ErrSettlementExceeds = errors.New("الكمية المدخلة أكبر من المتبقي")
)

// ReturnLine requests the return of quantity units of one invoice line.
type ReturnLine struct {
	ServiceID string
	Quantity  int
}

type Coordinator struct {
	store *store.Store
	clock Clock

	mu       sync.Mutex
	inFlight map[string]struct{} // invoice ids with a reversal in progress
}

func New(st *store.Store, clock Clock) *Coordinator {
	return &Coordinator{
		store:    st,
		clock:    clock,
		inFlight: make(map[string]struct{}),
	}
}

// acquire marks an invoice reversal as in flight. A second caller hitting the
// same invoice while the first is still committing is treated as a benign
// double submission and gets ok=false.
func (c *Coordinator) acquire(invoiceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[invoiceID]; busy {
		return false
	}
	c.inFlight[invoiceID] = struct{}{}
	return true
}

func (c *Coordinator) release(invoiceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, invoiceID)
}

// ── AddInvoice ────────────────────────────────────────────────────────────────

// AddInvoice records a sale and fans it out:
//  1. the invoice is stored with status forced to PAID;
//  2. every teacher referenced by a line item gains history entries: NOTES
//     under the note's owner, DEBT under the debtor teacher (unit counts,
//     amount stays zero), and debtor unit totals are recomputed;
//  3. when isDebt and the debtor is a general client (not a teacher), the
//     invoice total is charged to the matching ClientDebt, created lazily on
//     first use and matched case-insensitively by trimmed name.
//
// Steps 2's debt charge and step 3 are mutually exclusive per invoice.
func (c *Coordinator) AddInvoice(inv model.Invoice, isDebt, isTeacherDebt bool) (model.Invoice, error) {
	if len(inv.Items) == 0 {
		return model.Invoice{}, ErrEmptyInvoice
	}

	now := c.clock.Now()
	if inv.Date.IsZero() {
		inv.Date = now
	}
	inv.Status = model.InvoicePaid // a new invoice is never born RETURNED
	inv.IsDebt = isDebt

	// Line totals are recomputed rather than trusted.
	subtotal := decimal.Zero
	for i := range inv.Items {
		it := &inv.Items[i]
		it.Total = it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(it.Total)
	}
	inv.Subtotal = subtotal
	inv.Total = decimal.Max(decimal.Zero, subtotal.Sub(inv.DiscountAmount()))

	err := c.store.Update(func(st *store.State) error {
		if inv.ID == "" {
			inv.ID = nextInvoiceID(st.Invoices, inv.Date)
		}
		st.Invoices = append([]model.Invoice{inv}, st.Invoices...)

		for ti := range st.Teachers {
			t := &st.Teachers[ti]
			touched := false
			for _, it := range inv.Items {
				if it.TeacherID == t.ID {
					t.History = append(t.History, model.TeacherHistoryItem{
						InvoiceID:   inv.ID,
						ServiceName: it.Name,
						Quantity:    it.Quantity,
						Amount:      decimal.Zero,
						Date:        inv.Date,
						EntryType:   model.EntryNotes,
					})
					touched = true
				}
				if it.DebtTeacherID == t.ID {
					t.History = append(t.History, model.TeacherHistoryItem{
						InvoiceID:        inv.ID,
						ServiceName:      it.Name,
						Quantity:         it.Quantity,
						Amount:           decimal.Zero,
						Date:             inv.Date,
						EntryType:        model.EntryDebt,
						OwnerTeacherName: it.OwnerTeacherName,
					})
					touched = true
				}
			}
			if touched {
				t.RecalcUnits()
			}
		}

		if isDebt && !isTeacherDebt {
			c.chargeClient(st, &inv, now)
		}
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (c *Coordinator) chargeClient(st *store.State, inv *model.Invoice, now time.Time) {
	summary := itemSummary(inv.Items)
	entry := model.DebtEntry{
		Service: fmt.Sprintf("فاتورة #%s: %s", inv.ID, summary),
		Amount:  inv.Total,
		Date:    inv.Date,
	}

	for i := range st.Debts {
		d := &st.Debts[i]
		if d.MatchesName(inv.CustomerName) {
			entry.Note = "ترحيل تلقائي من المبيعات"
			d.TotalDebt = d.TotalDebt.Add(inv.Total)
			d.RemainingAmount = d.TotalDebt.Sub(d.PaidAmount)
			d.History = append(d.History, entry)
			return
		}
	}

	entry.Note = "عميل جديد - ترحيل آلي"
	st.Debts = append(st.Debts, model.ClientDebt{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(inv.CustomerName),
		TotalDebt:       inv.Total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: inv.Total,
		History:         []model.DebtEntry{entry},
		Payments:        []model.DebtPayment{},
	})
}

// ── SetInvoiceStatus (full return) ────────────────────────────────────────────

// SetInvoiceStatus transitions an invoice to the target status. RETURNED is
// terminal; repeating it is a no-op, and a reversal already in flight for the
// same invoice is silently ignored (double-click protection). On transition
// to RETURNED:
//   - every teacher history entry tied to the invoice is stripped from all
//     teachers and their unit totals recomputed;
//   - a debt invoice is reversed out of the matching client's balance with a
//     negative history line;
//   - a cash invoice synthesizes a RETURNS expense, deduplicated by its
//     (kind, source invoice) key.
func (c *Coordinator) SetInvoiceStatus(id string, status model.InvoiceStatus) error {
	if status == model.InvoiceReturned {
		if !c.acquire(id) {
			return nil // benign double submission
		}
		defer c.release(id)
	}

	now := c.clock.Now()
	return c.store.Update(func(st *store.State) error {
		inv := findInvoice(st, id)
		if inv == nil {
			return ErrInvoiceNotFound
		}
		if inv.Status == status {
			return nil
		}
		if status == model.InvoicePaid {
			if inv.Status == model.InvoiceReturned {
				return ErrReactivate
			}
			inv.Status = model.InvoicePaid
			return nil
		}

		stripTeacherHistory(st, inv.ID)

		if inv.IsDebt {
			for i := range st.Debts {
				d := &st.Debts[i]
				if !d.MatchesName(inv.CustomerName) {
					continue
				}
				d.TotalDebt = d.TotalDebt.Sub(inv.Total)
				d.RemainingAmount = d.TotalDebt.Sub(d.PaidAmount)
				d.History = append(d.History, model.DebtEntry{
					Service: fmt.Sprintf("مرتجع فاتورة #%s", inv.ID),
					Amount:  inv.Total.Neg(),
					Date:    now,
					Note:    "إلغاء مديونية بسبب مرتجع",
				})
				break
			}
		} else if !hasReturnExpense(st.Expenses, model.ExpenseReturnFull, inv.ID, decimal.Decimal{}) {
			exp := model.Expense{
				ID:              "RETURN_" + inv.ID,
				Title:           fmt.Sprintf("مرتجع فاتورة #%s", inv.ID),
				Amount:          inv.Total,
				Date:            now,
				Category:        model.ExpenseReturns,
				Description:     fmt.Sprintf("خصم قيمة المرتجع النقدي من الخزينة (عميل: %s)", inv.CustomerName),
				Kind:            model.ExpenseReturnFull,
				SourceInvoiceID: inv.ID,
			}
			st.Expenses = append([]model.Expense{exp}, st.Expenses...)
		}

		inv.Status = model.InvoiceReturned
		return nil
	})
}

// ── PartialReturn ─────────────────────────────────────────────────────────────

// PartialReturn shrinks the requested line quantities (clamped to what the
// invoice still holds), reverses the refund out of the debt ledger or the
// cash register, and rebuilds the affected teachers' histories from the
// post-return item list. The invoice stays PAID even if every item reaches
// zero. Returns the refunded amount; a reversal already in flight yields a
// zero refund and no error.
func (c *Coordinator) PartialReturn(id string, lines []ReturnLine) (decimal.Decimal, error) {
	if !c.acquire(id) {
		return decimal.Zero, nil
	}
	defer c.release(id)

	requested := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			requested[l.ServiceID] = l.Quantity
		}
	}
	if len(requested) == 0 {
		return decimal.Zero, ErrNothingToReturn
	}

	now := c.clock.Now()
	refund := decimal.Zero

	err := c.store.Update(func(st *store.State) error {
		inv := findInvoice(st, id)
		if inv == nil {
			return ErrInvoiceNotFound
		}
		if inv.Status == model.InvoiceReturned {
			return ErrInvoiceReturned
		}

		refund = decimal.Zero
		newItems := make([]model.InvoiceItem, 0, len(inv.Items))
		for _, it := range inv.Items {
			q := requested[it.ServiceID]
			if q <= 0 {
				newItems = append(newItems, it)
				continue
			}
			safe := q
			if safe > it.Quantity {
				safe = it.Quantity // never return more than the line holds
			}
			refund = refund.Add(it.PricePerUnit.Mul(decimal.NewFromInt(int64(safe))))
			it.Quantity -= safe
			it.Total = it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity)))
			if it.Quantity > 0 {
				newItems = append(newItems, it)
			}
		}
		if !refund.IsPositive() {
			return ErrNothingToReturn
		}

		rebuildTeacherHistory(st, inv, newItems)

		if inv.IsDebt {
			for i := range st.Debts {
				d := &st.Debts[i]
				if !d.MatchesName(inv.CustomerName) {
					continue
				}
				d.TotalDebt = d.TotalDebt.Sub(refund)
				d.RemainingAmount = d.TotalDebt.Sub(d.PaidAmount)
				d.History = append(d.History, model.DebtEntry{
					Service: fmt.Sprintf("مرتجع جزئي فاتورة #%s", inv.ID),
					Amount:  refund.Neg(),
					Date:    now,
					Note:    "مرتجع جزئي",
				})
				break
			}
		} else if !hasReturnExpense(st.Expenses, model.ExpenseReturnPartial, inv.ID, refund) {
			exp := model.Expense{
				ID:              fmt.Sprintf("PARTIAL_RETURN_%s_%s", inv.ID, refund.Floor().String()),
				Title:           fmt.Sprintf("مرتجع جزئي فاتورة #%s", inv.ID),
				Amount:          refund,
				Date:            now,
				Category:        model.ExpenseReturns,
				Description:     fmt.Sprintf("خصم قيمة المرتجع الجزئي من الخزينة (عميل: %s)", inv.CustomerName),
				Kind:            model.ExpenseReturnPartial,
				SourceInvoiceID: inv.ID,
			}
			st.Expenses = append([]model.Expense{exp}, st.Expenses...)
		}

		inv.Items = newItems
		inv.Total = decimal.Max(decimal.Zero, inv.Total.Sub(refund))
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return refund, nil
}

// ── DeleteInvoice ─────────────────────────────────────────────────────────────

// DeleteInvoice removes the invoice record permanently. No referential
// cleanup is performed: debts, teacher histories and expenses keep whatever
// this invoice wrote. Admin-only at the API layer.
func (c *Coordinator) DeleteInvoice(id string) error {
	return c.store.Update(func(st *store.State) error {
		for i := range st.Invoices {
			if st.Invoices[i].ID == id {
				st.Invoices = append(st.Invoices[:i], st.Invoices[i+1:]...)
				return nil
			}
		}
		return ErrInvoiceNotFound
	})
}

// ── Client debt operations ────────────────────────────────────────────────────

// RecordClientPayment collects cash against a client balance. Collecting more
// than the remaining amount is rejected.
func (c *Coordinator) RecordClientPayment(clientID string, amount decimal.Decimal, note string) (model.ClientDebt, error) {
	if !amount.IsPositive() {
		return model.ClientDebt{}, ErrInvalidAmount
	}
	var out model.ClientDebt
	err := c.store.Update(func(st *store.State) error {
		d := findClient(st, clientID)
		if d == nil {
			return ErrClientNotFound
		}
		if amount.GreaterThan(d.RemainingAmount) {
			return ErrExceedsRemaining
		}
		d.PaidAmount = d.PaidAmount.Add(amount)
		d.RemainingAmount = d.TotalDebt.Sub(d.PaidAmount)
		d.Payments = append(d.Payments, model.DebtPayment{
			ID:     uuid.NewString(),
			Amount: amount,
			Date:   c.clock.Now(),
			Note:   note,
		})
		out = *d
		return nil
	})
	return out, err
}

// AddClientCharge records manual work ("شغل جديد") on a client's account
// outside the invoice flow.
func (c *Coordinator) AddClientCharge(clientID, service string, amount decimal.Decimal, note string) (model.ClientDebt, error) {
	if !amount.IsPositive() {
		return model.ClientDebt{}, ErrInvalidAmount
	}
	var out model.ClientDebt
	err := c.store.Update(func(st *store.State) error {
		d := findClient(st, clientID)
		if d == nil {
			return ErrClientNotFound
		}
		d.TotalDebt = d.TotalDebt.Add(amount)
		d.RemainingAmount = d.TotalDebt.Sub(d.PaidAmount)
		d.History = append(d.History, model.DebtEntry{
			Service: service,
			Amount:  amount,
			Date:    c.clock.Now(),
			Note:    note,
		})
		out = *d
		return nil
	})
	return out, err
}

// ── Teacher operations ────────────────────────────────────────────────────────

// AppendBookingNotes adds NOTES history entries for a booking's teacher-note
// items, keyed by the booking id so the entries stay traceable.
func (c *Coordinator) AppendBookingNotes(bookingID string, items []model.BookingItem, at time.Time) error {
	return c.store.Update(func(st *store.State) error {
		for ti := range st.Teachers {
			t := &st.Teachers[ti]
			for _, it := range items {
				if it.Type != model.BookingTeacherNote || it.TeacherID != t.ID {
					continue
				}
				t.History = append(t.History, model.TeacherHistoryItem{
					InvoiceID:   bookingID,
					ServiceName: "حجز مذكرة: " + it.Title,
					Quantity:    it.Qty,
					Amount:      decimal.Zero,
					Date:        at,
					EntryType:   model.EntryNotes,
				})
			}
		}
		return nil
	})
}

// SettleTeacherUnits clears part of a teacher's outstanding unit count.
func (c *Coordinator) SettleTeacherUnits(teacherID string, quantity int, note string) (model.Teacher, error) {
	if quantity <= 0 {
		return model.Teacher{}, ErrInvalidAmount
	}
	var out model.Teacher
	err := c.store.Update(func(st *store.State) error {
		for i := range st.Teachers {
			t := &st.Teachers[i]
			if t.ID != teacherID {
				continue
			}
			if quantity > t.RemainingAmount {
				return ErrSettlementExceeds
			}
			t.PaidAmount += quantity
			t.Settlements = append(t.Settlements, model.TeacherSettlement{
				ID:       uuid.NewString(),
				Quantity: quantity,
				Date:     c.clock.Now(),
				Note:     note,
			})
			t.RecalcUnits()
			out = *t
			return nil
		}
		return ErrClientNotFound
	})
	return out, err
}

// ── Startup maintenance ───────────────────────────────────────────────────────

const invoiceRetention = 6 * 30 * 24 * time.Hour

// StartupMaintenance prunes invoices older than six months and drops
// duplicated system-generated return expenses left behind by the legacy
// title-keyed guard. Runs once before the server starts serving.
func (c *Coordinator) StartupMaintenance() error {
	cutoff := c.clock.Now().Add(-invoiceRetention)
	return c.store.Update(func(st *store.State) error {
		kept := st.Invoices[:0]
		for _, inv := range st.Invoices {
			if !inv.Date.Before(cutoff) {
				kept = append(kept, inv)
			}
		}
		st.Invoices = kept

		seen := make(map[string]bool)
		cleaned := st.Expenses[:0]
		for _, exp := range st.Expenses {
			key := dedupKey(exp)
			if key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			cleaned = append(cleaned, exp)
		}
		st.Expenses = cleaned
		return nil
	})
}

// dedupKey identifies system-generated return expenses. Legacy rows imported
// from old backups may lack the structured kind, so the display title doubles
// as a fallback key for them.
func dedupKey(exp model.Expense) string {
	switch exp.Kind {
	case model.ExpenseReturnFull:
		return "full|" + exp.SourceInvoiceID
	case model.ExpenseReturnPartial:
		return "partial|" + exp.SourceInvoiceID + "|" + exp.Amount.String()
	}
	if strings.HasPrefix(exp.Title, "مرتجع جزئي فاتورة #") {
		return "partial|" + exp.Title + "|" + exp.Amount.String()
	}
	if strings.HasPrefix(exp.Title, "مرتجع فاتورة #") {
		return "full|" + exp.Title
	}
	return ""
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func findInvoice(st *store.State, id string) *model.Invoice {
	for i := range st.Invoices {
		if st.Invoices[i].ID == id {
			return &st.Invoices[i]
		}
	}
	return nil
}

func findClient(st *store.State, id string) *model.ClientDebt {
	for i := range st.Debts {
		if st.Debts[i].ID == id {
			return &st.Debts[i]
		}
	}
	return nil
}

// stripTeacherHistory removes every history entry tied to the invoice from
// all teachers and recomputes their unit totals.
func stripTeacherHistory(st *store.State, invoiceID string) {
	for ti := range st.Teachers {
		t := &st.Teachers[ti]
		kept := t.History[:0]
		changed := false
		for _, h := range t.History {
			if h.InvoiceID == invoiceID {
				changed = true
				continue
			}
			kept = append(kept, h)
		}
		if changed {
			t.History = kept
			t.RecalcUnits()
		}
	}
}

// rebuildTeacherHistory regenerates every affected teacher's entries for the
// invoice from the post-return item list. Always a full rebuild, never an
// incremental adjustment.
func rebuildTeacherHistory(st *store.State, inv *model.Invoice, remaining []model.InvoiceItem) {
	stripTeacherHistory(st, inv.ID)
	for ti := range st.Teachers {
		t := &st.Teachers[ti]
		touched := false
		for _, it := range remaining {
			if it.TeacherID == t.ID {
				t.History = append(t.History, model.TeacherHistoryItem{
					InvoiceID:   inv.ID,
					ServiceName: it.Name,
					Quantity:    it.Quantity,
					Amount:      decimal.Zero,
					Date:        inv.Date,
					EntryType:   model.EntryNotes,
				})
				touched = true
			}
			if it.DebtTeacherID == t.ID {
				t.History = append(t.History, model.TeacherHistoryItem{
					InvoiceID:        inv.ID,
					ServiceName:      it.Name,
					Quantity:         it.Quantity,
					Amount:           decimal.Zero,
					Date:             inv.Date,
					EntryType:        model.EntryDebt,
					OwnerTeacherName: it.OwnerTeacherName,
				})
				touched = true
			}
		}
		if touched {
			t.RecalcUnits()
		}
	}
}

// hasReturnExpense checks the structured dedup key. The partial-return key
// also includes the amount: the same invoice may legitimately be partially
// returned twice for different amounts.
func hasReturnExpense(expenses []model.Expense, kind model.ExpenseKind, invoiceID string, amount decimal.Decimal) bool {
	for _, exp := range expenses {
		if exp.Kind != kind || exp.SourceInvoiceID != invoiceID {
			continue
		}
		if kind == model.ExpenseReturnPartial && !exp.Amount.Equal(amount) {
			continue
		}
		return true
	}
	return false
}

// nextInvoiceID issues the next date-prefixed sequence for the invoice's day,
// scanning existing ids so deletions never cause a collision.
func nextInvoiceID(invoices []model.Invoice, date time.Time) string {
	prefix := date.Format("20060102")
	max := 0
	for _, inv := range invoices {
		rest, ok := strings.CutPrefix(inv.ID, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, max+1)
}

func itemSummary(items []model.InvoiceItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%d)", it.Name, it.Quantity))
	}
	return strings.Join(parts, " + ")
}
