package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)

func newBookingFixture(t *testing.T) (BookingService, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	clock := fixedClock{t: testNow}
	return NewBookingService(st, ledger.New(st, clock), clock), st
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var testCashier = dto.UserResponse{ID: "u1", Username: "admin", Role: "ADMIN"}

func bookingRequest(paid string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		CustomerName:  "منى",
		CustomerPhone: "01011112222",
		PaidAmount:    dec(paid),
		Items: []dto.BookingItemRequest{
			{Type: "EXTERNAL_BOOK", BookID: "b1", Title: "كتاب خارجي", Qty: 1, UnitPrice: dec("120")},
			{Type: "TEACHER_NOTE", TeacherID: "t1", Title: "مذكرة الجبر", Qty: 2, UnitPrice: dec("40")},
		},
	}
}

func TestCreateBookingIssuesCodeAndReceipt(t *testing.T) {
	svc, st := newBookingFixture(t)

	b, err := svc.Create(bookingRequest("50"), testCashier)
	require.NoError(t, err)

	assert.Equal(t, "BK-2026-000001", b.Code)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.True(t, b.TotalAmount.Equal(dec("200")))
	assert.True(t, b.PaidAmount.Equal(dec("50")))
	assert.True(t, b.RemainingAmount.Equal(dec("150")))

	receipts := svc.Receipts(b.ID)
	require.Len(t, receipts, 1)
	assert.Equal(t, b.Code, receipts[0].Code)
	assert.Equal(t, b.ReceiptID, receipts[0].ID)

	second, err := svc.Create(bookingRequest("0"), testCashier)
	require.NoError(t, err)
	assert.Equal(t, "BK-2026-000002", second.Code)

	_ = st
}

func TestCreateBookingAppendsTeacherNoteHistory(t *testing.T) {
	svc, st := newBookingFixture(t)
	require.NoError(t, st.Update(func(s *store.State) error {
		s.Teachers = append(s.Teachers, model.Teacher{ID: "t1", Name: "أ. محمد"})
		return nil
	}))

	b, err := svc.Create(bookingRequest("0"), testCashier)
	require.NoError(t, err)

	teacher := st.Snapshot().Teachers[0]
	require.Len(t, teacher.History, 1)
	assert.Equal(t, "حجز مذكرة: مذكرة الجبر", teacher.History[0].ServiceName)
	assert.Equal(t, b.Code, teacher.History[0].InvoiceID)
	assert.Equal(t, model.EntryNotes, teacher.History[0].EntryType)
}

func TestCollectBooking(t *testing.T) {
	svc, _ := newBookingFixture(t)
	b, err := svc.Create(bookingRequest("50"), testCashier)
	require.NoError(t, err)

	got, err := svc.Collect(b.ID, dto.CollectBookingRequest{Amount: dec("150")}, "admin")
	require.NoError(t, err)
	assert.True(t, got.RemainingAmount.IsZero())

	receipts := svc.Receipts(b.ID)
	require.Len(t, receipts, 2)
	codes := []string{receipts[0].Code, receipts[1].Code}
	assert.Contains(t, codes, b.Code+"-COL")

	_, err = svc.Collect(b.ID, dto.CollectBookingRequest{Amount: dec("1")}, "admin")
	assert.ErrorIs(t, err, errCollectTooMuch)
	_, err = svc.Collect(b.ID, dto.CollectBookingRequest{Amount: dec("0")}, "admin")
	assert.ErrorIs(t, err, errCollectNotPositive)
}

func TestDeliverRequiresFullPayment(t *testing.T) {
	svc, _ := newBookingFixture(t)
	b, err := svc.Create(bookingRequest("50"), testCashier)
	require.NoError(t, err)

	_, err = svc.Deliver(b.ID, "admin")
	assert.ErrorIs(t, err, errBookingNotPaid)

	_, err = svc.Collect(b.ID, dto.CollectBookingRequest{Amount: dec("150")}, "admin")
	require.NoError(t, err)

	got, err := svc.Deliver(b.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.BookingDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)
	assert.Equal(t, "admin", got.DeliveredByName)

	_, err = svc.Deliver(b.ID, "admin")
	assert.ErrorIs(t, err, errBookingNotPending)
}

func TestCancelBookingIsStatusOnly(t *testing.T) {
	svc, st := newBookingFixture(t)
	require.NoError(t, st.Update(func(s *store.State) error {
		s.Teachers = append(s.Teachers, model.Teacher{ID: "t1", Name: "أ. محمد"})
		return nil
	}))

	b, err := svc.Create(bookingRequest("50"), testCashier)
	require.NoError(t, err)

	got, err := svc.Cancel(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCanceled, got.Status)
	assert.True(t, got.PaidAmount.Equal(dec("50")), "collected money stays collected")

	teacher := st.Snapshot().Teachers[0]
	assert.Len(t, teacher.History, 1, "cancellation performs no ledger reversal")
}
