package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errBookingNotFound    = errors.New("الحجز غير موجود")
	errBookingNotPending  = errors.New("لا يمكن تعديل حجز غير قائم")
	errBookingNotPaid     = errors.New("لا يمكن التسليم قبل سداد كامل المبلغ")
	errCollectTooMuch     = errors.New("المبلغ المدخل أكبر من المتبقي على الحجز")
	errCollectNotPositive = errors.New("يرجى إدخال مبلغ صحيح أكبر من صفر")
	errBookNotFound       = errors.New("الكتاب غير موجود")
)

type BookingService interface {
	// External books catalog
	CreateBook(req dto.ExternalBookRequest) (model.ExternalBook, error)
	UpdateBook(id string, req dto.ExternalBookRequest) (model.ExternalBook, error)
	ToggleBook(id string) (model.ExternalBook, error)
	ListBooks() []model.ExternalBook

	// Bookings
	Create(req dto.CreateBookingRequest, cashier dto.UserResponse) (model.Booking, error)
	List(filter dto.BookingFilter) []model.Booking
	Collect(id string, req dto.CollectBookingRequest, cashierName string) (model.Booking, error)
	Deliver(id string, cashierName string) (model.Booking, error)
	Cancel(id string) (model.Booking, error)
	Receipts(bookingID string) []model.BookingReceipt
}

type bookingService struct {
	store *store.Store
	coord *ledger.Coordinator
	clock ledger.Clock
}

func NewBookingService(st *store.Store, coord *ledger.Coordinator, clock ledger.Clock) BookingService {
	return &bookingService{store: st, coord: coord, clock: clock}
}

// ── External books ────────────────────────────────────────────────────────────

func (s *bookingService) CreateBook(req dto.ExternalBookRequest) (model.ExternalBook, error) {
	book := model.ExternalBook{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Price:     req.Price,
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}
	err := s.store.Update(func(st *store.State) error {
		st.ExternalBooks = append(st.ExternalBooks, book)
		return nil
	})
	return book, err
}

func (s *bookingService) UpdateBook(id string, req dto.ExternalBookRequest) (model.ExternalBook, error) {
	var out model.ExternalBook
	err := s.store.Update(func(st *store.State) error {
		for i := range st.ExternalBooks {
			if st.ExternalBooks[i].ID == id {
				st.ExternalBooks[i].Title = strings.TrimSpace(req.Title)
				st.ExternalBooks[i].Price = req.Price
				out = st.ExternalBooks[i]
				return nil
			}
		}
		return errBookNotFound
	})
	return out, err
}

func (s *bookingService) ToggleBook(id string) (model.ExternalBook, error) {
	var out model.ExternalBook
	err := s.store.Update(func(st *store.State) error {
		for i := range st.ExternalBooks {
			if st.ExternalBooks[i].ID == id {
				st.ExternalBooks[i].IsActive = !st.ExternalBooks[i].IsActive
				out = st.ExternalBooks[i]
				return nil
			}
		}
		return errBookNotFound
	})
	return out, err
}

func (s *bookingService) ListBooks() []model.ExternalBook {
	return s.store.Snapshot().ExternalBooks
}

// ── Bookings ──────────────────────────────────────────────────────────────────

func (s *bookingService) Create(req dto.CreateBookingRequest, cashier dto.UserResponse) (model.Booking, error) {
	now := s.clock.Now()
	bookingID := uuid.NewString()

	items := make([]model.BookingItem, len(req.Items))
	total := decimal.Zero
	for i, it := range req.Items {
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty)))
		items[i] = model.BookingItem{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			Type:      model.BookingItemType(it.Type),
			Title:     it.Title,
			TeacherID: it.TeacherID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Total:     lineTotal,
		}
		total = total.Add(lineTotal)
	}

	paid := decimal.Min(req.PaidAmount, total)
	booking := model.Booking{
		ID:              bookingID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CreatedAt:       now,
		CreatedByID:     cashier.ID,
		CreatedByName:   cashier.Username,
		Status:          model.BookingPending,
		TotalAmount:     total,
		PaidAmount:      paid,
		RemainingAmount: total.Sub(paid),
		Items:           items,
	}

	err := s.store.Update(func(st *store.State) error {
		booking.Code = nextBookingCode(st.Bookings, now.Year())
		receipt := s.buildReceipt(&booking, booking.Code)
		booking.ReceiptID = receipt.ID
		st.Bookings = append([]model.Booking{booking}, st.Bookings...)
		st.BookingReceipts = append([]model.BookingReceipt{receipt}, st.BookingReceipts...)
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}

	// teacher-note reservations surface in the owning teacher's history;
	// a failure here is logged, the booking itself already committed
	if err := s.coord.AppendBookingNotes(booking.Code, booking.Items, now); err != nil {
		log.Error().Err(err).Str("booking", booking.Code).Msg("booking: append teacher notes failed")
	}
	return booking, nil
}

func (s *bookingService) List(filter dto.BookingFilter) []model.Booking {
	snap := s.store.Snapshot()
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]model.Booking, 0, len(snap.Bookings))
	for _, b := range snap.Bookings {
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(b.CustomerName), query) &&
			!strings.Contains(b.CustomerPhone, query) &&
			!strings.Contains(strings.ToLower(b.Code), query) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Collect takes a partial payment against a pending booking and issues a
// collection receipt (code suffixed "-COL").
func (s *bookingService) Collect(id string, req dto.CollectBookingRequest, cashierName string) (model.Booking, error) {
	if !req.Amount.IsPositive() {
		return model.Booking{}, errCollectNotPositive
	}
	var out model.Booking
	err := s.store.Update(func(st *store.State) error {
		b := findBooking(st, id)
		if b == nil {
			return errBookingNotFound
		}
		if b.Status != model.BookingPending {
			return errBookingNotPending
		}
		if req.Amount.GreaterThan(b.RemainingAmount) {
			return errCollectTooMuch
		}
		b.PaidAmount = b.PaidAmount.Add(req.Amount)
		b.RemainingAmount = b.TotalAmount.Sub(b.PaidAmount)

		receipt := s.buildReceipt(b, b.Code+"-COL")
		receipt.CashierName = cashierName
		st.BookingReceipts = append([]model.BookingReceipt{receipt}, st.BookingReceipts...)
		out = *b
		return nil
	})
	return out, err
}

// Deliver hands the goods over. Only fully-paid pending bookings qualify.
func (s *bookingService) Deliver(id string, cashierName string) (model.Booking, error) {
	var out model.Booking
	err := s.store.Update(func(st *store.State) error {
		b := findBooking(st, id)
		if b == nil {
			return errBookingNotFound
		}
		if b.Status != model.BookingPending {
			return errBookingNotPending
		}
		if !b.RemainingAmount.IsZero() {
			return errBookingNotPaid
		}
		now := s.clock.Now()
		b.Status = model.BookingDelivered
		b.DeliveredAt = &now
		b.DeliveredByName = cashierName
		out = *b
		return nil
	})
	return out, err
}

// Cancel is status-only: collected money stays collected and teacher
// histories keep their entries.
func (s *bookingService) Cancel(id string) (model.Booking, error) {
	var out model.Booking
	err := s.store.Update(func(st *store.State) error {
		b := findBooking(st, id)
		if b == nil {
			return errBookingNotFound
		}
		if b.Status != model.BookingPending {
			return errBookingNotPending
		}
		b.Status = model.BookingCanceled
		out = *b
		return nil
	})
	return out, err
}

func (s *bookingService) Receipts(bookingID string) []model.BookingReceipt {
	snap := s.store.Snapshot()
	out := make([]model.BookingReceipt, 0, 2)
	for _, r := range snap.BookingReceipts {
		if r.BookingID == bookingID {
			out = append(out, r)
		}
	}
	return out
}

func (s *bookingService) buildReceipt(b *model.Booking, code string) model.BookingReceipt {
	return model.BookingReceipt{
		ID:              uuid.NewString(),
		BookingID:       b.ID,
		Code:            code,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CashierName:     b.CreatedByName,
		Date:            s.clock.Now(),
		Items:           b.Items,
		TotalAmount:     b.TotalAmount,
		PaidAmount:      b.PaidAmount,
		RemainingAmount: b.RemainingAmount,
	}
}

func findBooking(st *store.State, id string) *model.Booking {
	for i := range st.Bookings {
		if st.Bookings[i].ID == id {
			return &st.Bookings[i]
		}
	}
	return nil
}

// nextBookingCode issues BK-<year>-NNNNNN, scanning existing codes for the
// year's highest sequence.
func nextBookingCode(bookings []model.Booking, year int) string {
	prefix := fmt.Sprintf("BK-%d-", year)
	max := 0
	for _, b := range bookings {
		rest, ok := strings.CutPrefix(b.Code, prefix)
		if !ok {
			continue
		}
		n := 0
		if _, err := fmt.Sscanf(rest, "%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%06d", prefix, max+1)
}
