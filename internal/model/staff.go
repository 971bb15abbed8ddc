package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BonusType string

const (
	BonusIncentive BonusType = "INCENTIVE"
	BonusOvertime  BonusType = "OVERTIME"
)

type StaffBonus struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Type   BonusType       `json:"type"`
	Note   string          `json:"note,omitempty"`
}

type StaffPenalty struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

type StaffWithdrawal struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// Staff is an employee payroll file. Ledgers are additive-only; the net due
// for a month is Salary + bonuses - penalties - withdrawals.
type Staff struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Salary      decimal.Decimal   `json:"salary"`
	Bonuses     []StaffBonus      `json:"bonuses"`
	Penalties   []StaffPenalty    `json:"penalties"`
	Withdrawals []StaffWithdrawal `json:"withdrawals"`
}

// NetDue returns the amount currently owed to the employee.
func (s *Staff) NetDue() decimal.Decimal {
	due := s.Salary
	for _, b := range s.Bonuses {
		due = due.Add(b.Amount)
	}
	for _, p := range s.Penalties {
		due = due.Sub(p.Amount)
	}
	for _, w := range s.Withdrawals {
		due = due.Sub(w.Amount)
	}
	return due
}
