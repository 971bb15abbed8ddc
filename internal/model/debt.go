package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtEntry is one signed line in a client's running account:
// positive = charge, negative = reversal.
type DebtEntry struct {
	Service string          `json:"service"`
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"`
	Note    string          `json:"note,omitempty"`
}

// DebtPayment is an explicit cash collection against a client's balance.
type DebtPayment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// ClientDebt is a named customer's running balance. Customer names are
// matched case-insensitively after trimming, so "Ali " and "ali" are the
// same account. RemainingAmount == TotalDebt - PaidAmount must hold after
// every mutation.
type ClientDebt struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	TotalDebt       decimal.Decimal `json:"totalDebt"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	History         []DebtEntry     `json:"history"`
	Payments        []DebtPayment   `json:"payments"`
}

// MatchesName reports whether this client owns the given customer name.
func (c *ClientDebt) MatchesName(name string) bool {
	return normalizeName(c.CustomerName) == normalizeName(name)
}
