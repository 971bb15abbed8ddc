package dto

import "github.com/shopspring/decimal"

// ─── External books ──────────────────────────────────────────────────────────

type ExternalBookRequest struct {
	Title string          `json:"title" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

// ─── Bookings ────────────────────────────────────────────────────────────────

type BookingItemRequest struct {
	Type      string          `json:"type"      validate:"required,oneof=EXTERNAL_BOOK TEACHER_NOTE"`
	BookID    string          `json:"bookId"    validate:"required_if=Type EXTERNAL_BOOK"`
	TeacherID string          `json:"teacherId" validate:"required_if=Type TEACHER_NOTE"`
	Title     string          `json:"title"     validate:"required"`
	Qty       int             `json:"qty"       validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"min=0"`
}

type CreateBookingRequest struct {
	CustomerName  string               `json:"customerName"  validate:"required"`
	CustomerPhone string               `json:"customerPhone" validate:"required"`
	Items         []BookingItemRequest `json:"items"         validate:"required,min=1,dive"`
	PaidAmount    decimal.Decimal      `json:"paidAmount"    validate:"min=0"`
}

type CollectBookingRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// BookingFilter is bound from the query string of GET /api/bookings.
type BookingFilter struct {
	Status string `form:"status"` // PENDING | DELIVERED | CANCELED | empty = all
	Query  string `form:"q"`      // matches customer name, phone or code
}
