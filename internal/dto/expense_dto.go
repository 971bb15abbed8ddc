package dto

import "github.com/shopspring/decimal"

type ExpenseRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Category    string          `json:"category"    validate:"required,oneof=GENERAL RAW_MATERIALS TOOLS STAFF"`
	Description string          `json:"description"`
	StaffID     string          `json:"staffId"`
}

// SupplierMoveRequest records a supply delivery or a return to the supplier.
type SupplierMoveRequest struct {
	SupplierName string          `json:"supplierName" validate:"required"`
	ItemName     string          `json:"itemName"     validate:"required"`
	Quantity     int             `json:"quantity"     validate:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unitPrice"    validate:"required,gt=0"`
	IsReturn     bool            `json:"isReturn"`
}

// SupplierSummary nets one supplier's deliveries against returns.
type SupplierSummary struct {
	SupplierName string          `json:"supplierName"`
	Moves        int             `json:"moves"`
	NetTotal     decimal.Decimal `json:"netTotal"`
}
