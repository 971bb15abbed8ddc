package dto

import "github.com/shopspring/decimal"

// ─── Catalog ─────────────────────────────────────────────────────────────────

type ServiceRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Category    string          `json:"category"    validate:"required,oneof=A4 A3 Banner Other"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	TeacherID   string          `json:"teacherId"   validate:"omitempty"`
	TeacherName string          `json:"teacherName" validate:"omitempty"`
}

// ─── Invoices ────────────────────────────────────────────────────────────────

type InvoiceItemRequest struct {
	ServiceID        string          `json:"serviceId"    validate:"required"`
	Name             string          `json:"name"         validate:"required"`
	Quantity         int             `json:"quantity"     validate:"required,min=1"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit" validate:"min=0"`
	TeacherID        string          `json:"teacherId"`
	TeacherName      string          `json:"teacherName"`
	DebtTeacherID    string          `json:"debtTeacherId"`
	DebtTeacherName  string          `json:"debtTeacherName"`
	OwnerTeacherName string          `json:"ownerTeacherName"`
}

type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customerName"`
	Items         []InvoiceItemRequest `json:"items"         validate:"required,min=1,dive"`
	DiscountType  string               `json:"discountType"  validate:"omitempty,oneof=PERCENT FIXED"`
	DiscountValue decimal.Decimal      `json:"discountValue" validate:"min=0"`
	IsDebt        bool                 `json:"isDebt"`
	IsTeacherDebt bool                 `json:"isTeacherDebt"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PAID RETURNED"`
}

type ReturnLineRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
}

type PartialReturnRequest struct {
	Lines []ReturnLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type PartialReturnResponse struct {
	Refund decimal.Decimal `json:"refund"`
}

// InvoiceFilter is bound from the query string of GET /api/invoices.
type InvoiceFilter struct {
	Date     string `form:"date"`   // YYYY-MM-DD; empty = all
	Status   string `form:"status"` // PAID | RETURNED | empty = all
	Customer string `form:"customer"`
}
