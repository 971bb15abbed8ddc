package dto

type TeacherRequest struct {
	Name  string `json:"name"  validate:"required"`
	Code  string `json:"code"`
	Phone string `json:"phone"`
}

type SettleUnitsRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Note     string `json:"note"`
}

// TeacherReportRow aggregates one service's sold units within a day for the
// teacher units report.
type TeacherReportRow struct {
	Date        string `json:"date"` // YYYY-MM-DD
	ServiceName string `json:"serviceName"`
	Units       int    `json:"units"`
}

type TeacherReportResponse struct {
	TeacherID   string             `json:"teacherId"`
	TeacherName string             `json:"teacherName"`
	TotalUnits  int                `json:"totalUnits"`
	Rows        []TeacherReportRow `json:"rows"`
}
