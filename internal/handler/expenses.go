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

type ExpensesHandler struct {
	svc      service.ExpenseService
	activity service.ActivityService
}

func NewExpensesHandler(svc service.ExpenseService, activity service.ActivityService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc, activity: activity}
}

func (h *ExpensesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.ExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	exp, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "مصروف جديد",
		fmt.Sprintf("%s: %s", exp.Title, exp.Amount.StringFixed(2)), model.ActivityExpense)
	c.JSON(http.StatusCreated, exp)
}

func (h *ExpensesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExpensesHandler) RecordSupplierMove(c *gin.Context) {
	var req dto.SupplierMoveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	exp, err := h.svc.RecordSupplierMove(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "حركة مورد", exp.Title, model.ActivityExpense)
	c.JSON(http.StatusCreated, exp)
}

func (h *ExpensesHandler) SupplierSummaries(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SupplierSummaries())
}
