package dto

import "github.com/shopspring/decimal"

type CreateClientRequest struct {
	CustomerName string `json:"customerName" validate:"required"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Note   string          `json:"note"`
}

type AddChargeRequest struct {
	Service string          `json:"service" validate:"required"`
	Amount  decimal.Decimal `json:"amount"  validate:"required,gt=0"`
	Note    string          `json:"note"`
}
