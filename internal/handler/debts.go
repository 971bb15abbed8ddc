package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type DebtsHandler struct {
	svc      service.DebtService
	activity service.ActivityService
}

func NewDebtsHandler(svc service.DebtService, activity service.ActivityService) *DebtsHandler {
	return &DebtsHandler{svc: svc, activity: activity}
}

func (h *DebtsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListClients())
}

func (h *DebtsHandler) Get(c *gin.Context) {
	client, err := h.svc.GetClient(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *DebtsHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.svc.CreateClient(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *DebtsHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.svc.RecordPayment(c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrClientNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "تحصيل دفعة",
		fmt.Sprintf("%s: %s", client.CustomerName, req.Amount.StringFixed(2)), model.ActivityDebt)
	c.JSON(http.StatusOK, client)
}

func (h *DebtsHandler) AddCharge(c *gin.Context) {
	var req dto.AddChargeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.svc.AddCharge(c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrClientNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "شغل جديد",
		fmt.Sprintf("%s: %s", client.CustomerName, req.Amount.StringFixed(2)), model.ActivityDebt)
	c.JSON(http.StatusOK, client)
}

func (h *DebtsHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DebtsHandler) StatementPDF(c *gin.Context) {
	path, err := h.svc.StatementPDF(c.Param("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر إنشاء كشف الحساب"))
		return
	}
	c.FileAttachment(path, "statement.pdf")
}
