package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseGeneral      ExpenseCategory = "GENERAL"
	ExpenseRawMaterials ExpenseCategory = "RAW_MATERIALS"
	ExpenseTools        ExpenseCategory = "TOOLS"
	ExpenseStaff        ExpenseCategory = "STAFF"
	ExpenseSupplier     ExpenseCategory = "SUPPLIER"
	ExpenseReturns      ExpenseCategory = "RETURNS"
)

// ExpenseKind distinguishes user-created rows from system-generated ones.
// Kind + SourceInvoiceID form the deduplication key for generated return
// entries; the Arabic display title is never parsed.
type ExpenseKind string

const (
	ExpenseManual        ExpenseKind = "MANUAL"
	ExpenseSupplierMove  ExpenseKind = "SUPPLIER_MOVE"
	ExpenseReturnFull    ExpenseKind = "RETURN_FULL"
	ExpenseReturnPartial ExpenseKind = "RETURN_PARTIAL"
)

// Expense is one cash-register movement. Amount is signed: positive is an
// outflow, negative appears on supplier returns.
type Expense struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Category        ExpenseCategory `json:"category"`
	Description     string          `json:"description,omitempty"`
	Kind            ExpenseKind     `json:"kind,omitempty"`
	SourceInvoiceID string          `json:"sourceInvoiceId,omitempty"`
	StaffID         string          `json:"staffId,omitempty"`

	// Supplier ledger fields, set when Category == SUPPLIER.
	SupplierName string          `json:"supplierName,omitempty"`
	ItemName     string          `json:"itemName,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice   decimal.Decimal `json:"totalPrice,omitempty"`
}
