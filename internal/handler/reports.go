package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type ReportsHandler struct {
	svc service.ReportService
	loc *time.Location
}

func NewReportsHandler(svc service.ReportService, loc *time.Location) *ReportsHandler {
	return &ReportsHandler{svc: svc, loc: loc}
}

// Daily serves GET /api/reports/daily?date=YYYY-MM-DD (default: today).
func (h *ReportsHandler) Daily(c *gin.Context) {
	day := time.Now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("صيغة التاريخ غير صحيحة"))
			return
		}
		day = parsed
	}
	c.JSON(http.StatusOK, h.svc.Daily(day))
}

// Monthly serves GET /api/reports/monthly?month=YYYY-MM (default: current).
func (h *ReportsHandler) Monthly(c *gin.Context) {
	now := time.Now().In(h.loc)
	year, month := now.Year(), now.Month()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("صيغة الشهر غير صحيحة"))
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}
	c.JSON(http.StatusOK, h.svc.Monthly(year, month))
}
