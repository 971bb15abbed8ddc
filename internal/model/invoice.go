package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePaid     InvoiceStatus = "PAID"
	InvoiceReturned InvoiceStatus = "RETURNED"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

// InvoiceItem is one sold line. Total must equal Quantity * PricePerUnit at
// all times; partial returns recompute both.
//
// TeacherID/TeacherName identify the teacher whose note is being sold.
// DebtTeacherID/DebtTeacherName are set when the sale is charged against a
// different teacher's debt account; OwnerTeacherName then preserves which
// teacher actually owns the note.
type InvoiceItem struct {
	ServiceID        string          `json:"serviceId"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit"`
	Total            decimal.Decimal `json:"total"`
	TeacherID        string          `json:"teacherId,omitempty"`
	TeacherName      string          `json:"teacherName,omitempty"`
	DebtTeacherID    string          `json:"debtTeacherId,omitempty"`
	DebtTeacherName  string          `json:"debtTeacherName,omitempty"`
	OwnerTeacherName string          `json:"ownerTeacherName,omitempty"`
}

// Invoice is a recorded sale. IDs are date-prefixed sequences unique per day
// (e.g. "20260830-004"). A new invoice is always born PAID; the only terminal
// transition is to RETURNED via a full return.
type Invoice struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	CashierName   string          `json:"cashierName"`
	Date          time.Time       `json:"date"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"status"`
	IsDebt        bool            `json:"isDebt"`
}

// DiscountAmount resolves the discount to a currency value.
func (inv *Invoice) DiscountAmount() decimal.Decimal {
	if inv.DiscountType == DiscountPercent {
		return inv.Subtotal.Mul(inv.DiscountValue).Div(decimal.NewFromInt(100))
	}
	return inv.DiscountValue
}
