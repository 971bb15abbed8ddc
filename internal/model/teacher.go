package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TeacherEntryType string

const (
	EntryNotes TeacherEntryType = "NOTES"
	EntryDebt  TeacherEntryType = "DEBT"
)

// TeacherHistoryItem is one consignment movement under a teacher, keyed by
// the source invoice (or booking) so it can be reversed exactly.
//
// A NOTES entry records that this teacher's own note was sold, regardless of
// who was billed. A DEBT entry records that this teacher is being charged in
// unit counts for a sale; OwnerTeacherName preserves the note's actual owner
// when it differs from the debtor.
type TeacherHistoryItem struct {
	InvoiceID        string           `json:"invoiceId"`
	ServiceName      string           `json:"serviceName"`
	Quantity         int              `json:"quantity"`
	Amount           decimal.Decimal  `json:"amount"` // always zero: these track units, not money
	Date             time.Time        `json:"date"`
	Priced           bool             `json:"priced"`
	EntryType        TeacherEntryType `json:"entryType"`
	OwnerTeacherName string           `json:"ownerTeacherName,omitempty"`
}

// TeacherSettlement clears part of a teacher's unit-count debt.
type TeacherSettlement struct {
	ID       string    `json:"id"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note,omitempty"`
}

// Teacher tracks note consignment per teacher. TotalDebt, PaidAmount and
// RemainingAmount are unit counts (items owed), never currency; TotalDebt is
// always recomputed from the DEBT entries in History so that history rebuilds
// keep the aggregates in lockstep.
type Teacher struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Code            string               `json:"code,omitempty"`
	Phone           string               `json:"phone,omitempty"`
	TotalDebt       int                  `json:"totalDebt"`
	PaidAmount      int                  `json:"paidAmount"`
	RemainingAmount int                  `json:"remainingAmount"`
	History         []TeacherHistoryItem `json:"history"`
	Settlements     []TeacherSettlement  `json:"settlements,omitempty"`
}

// RecalcUnits rederives the unit-count aggregates from the current history.
func (t *Teacher) RecalcUnits() {
	total := 0
	for _, h := range t.History {
		if h.EntryType == EntryDebt {
			total += h.Quantity
		}
	}
	t.TotalDebt = total
	t.RemainingAmount = total - t.PaidAmount
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchesName reports whether the teacher is registered under the given name.
func (t *Teacher) MatchesName(name string) bool {
	return normalizeName(t.Name) == normalizeName(name)
}
