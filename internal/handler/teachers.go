package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type TeachersHandler struct {
	svc      service.TeacherService
	activity service.ActivityService
}

func NewTeachersHandler(svc service.TeacherService, activity service.ActivityService) *TeachersHandler {
	return &TeachersHandler{svc: svc, activity: activity}
}

func (h *TeachersHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *TeachersHandler) Get(c *gin.Context) {
	teacher, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func (h *TeachersHandler) Create(c *gin.Context) {
	var req dto.TeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	teacher, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "إضافة مدرس", teacher.Name, model.ActivityTeacher)
	c.JSON(http.StatusCreated, teacher)
}

func (h *TeachersHandler) Update(c *gin.Context) {
	var req dto.TeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	teacher, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func (h *TeachersHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "حذف مدرس", c.Param("id"), model.ActivityTeacher)
	c.Status(http.StatusNoContent)
}

func (h *TeachersHandler) SettleUnits(c *gin.Context) {
	var req dto.SettleUnitsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	teacher, err := h.svc.SettleUnits(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "تسوية مدرس",
		fmt.Sprintf("%s: %d", teacher.Name, req.Quantity), model.ActivityTeacher)
	c.JSON(http.StatusOK, teacher)
}

func (h *TeachersHandler) UnitsReport(c *gin.Context) {
	report, err := h.svc.UnitsReport(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, report)
}
