package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

// maxImportBytes caps uploads; a full year of trading fits well under this.
const maxImportBytes = 50 << 20

type DataHandler struct {
	svc      service.DataService
	activity service.ActivityService
}

func NewDataHandler(svc service.DataService, activity service.ActivityService) *DataHandler {
	return &DataHandler{svc: svc, activity: activity}
}

func (h *DataHandler) ExportJSON(c *gin.Context) {
	payload, err := h.svc.ExportJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر تصدير البيانات"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="CenterFive_Backup.json"`)
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *DataHandler) ImportJSON(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("تعذر قراءة الملف"))
		return
	}
	summary, err := h.svc.ImportJSON(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "استيراد نسخة احتياطية", "", model.ActivitySystem)
	c.JSON(http.StatusOK, summary)
}

func (h *DataHandler) ExportXLSX(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="CenterFive_Export.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.svc.ExportXLSX(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر تصدير ملف الإكسل"))
	}
}

func (h *DataHandler) ImportXLSX(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("يرجى إرفاق ملف إكسل"))
		return
	}
	defer file.Close()

	summary, err := h.svc.ImportXLSX(io.LimitReader(file, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "استيراد ملف إكسل", "", model.ActivitySystem)
	c.JSON(http.StatusOK, summary)
}

// Reset wipes every collection. Admin-only, guarded again at the router.
func (h *DataHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر مسح البيانات"))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "مسح كامل للبيانات", "", model.ActivitySystem)
	c.Status(http.StatusNoContent)
}
