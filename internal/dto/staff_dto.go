package dto

import "github.com/shopspring/decimal"

type StaffRequest struct {
	Name   string          `json:"name"   validate:"required"`
	Salary decimal.Decimal `json:"salary" validate:"min=0"`
}

type StaffBonusRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Type   string          `json:"type"   validate:"required,oneof=INCENTIVE OVERTIME"`
	Note   string          `json:"note"`
}

type StaffAmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Note   string          `json:"note"`
}
