package model

import "github.com/shopspring/decimal"

type ServiceCategory string

const (
	CategoryA4     ServiceCategory = "A4"
	CategoryA3     ServiceCategory = "A3"
	CategoryBanner ServiceCategory = "Banner"
	CategoryOther  ServiceCategory = "Other"
)

// Service is a sellable catalog entry (print job, stationery item, or a
// teacher's note). Teacher notes carry the owning teacher so that sales
// fan out into the teacher's consignment history.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    ServiceCategory `json:"category"`
	TeacherID   string          `json:"teacherId,omitempty"`
	TeacherName string          `json:"teacherName,omitempty"`
}
