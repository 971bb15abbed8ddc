package model

import "time"

type ActivityType string

const (
	ActivitySale    ActivityType = "SALE"
	ActivityDebt    ActivityType = "DEBT"
	ActivityExpense ActivityType = "EXPENSE"
	ActivitySystem  ActivityType = "SYSTEM"
	ActivityTeacher ActivityType = "TEACHER"
)

// ActivityLog is one audit entry. The log is capped at 1000 entries,
// newest first.
type ActivityLog struct {
	ID        string       `json:"id"`
	Action    string       `json:"action"`
	Details   string       `json:"details"`
	User      string       `json:"user"`
	Role      Role         `json:"role"`
	Timestamp time.Time    `json:"timestamp"`
	Type      ActivityType `json:"type"`
}
