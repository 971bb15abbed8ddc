package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/infra"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type SalesHandler struct {
	svc      service.SalesService
	activity service.ActivityService
	pdfPath  string
}

func NewSalesHandler(svc service.SalesService, activity service.ActivityService, pdfPath string) *SalesHandler {
	return &SalesHandler{svc: svc, activity: activity, pdfPath: pdfPath}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (h *SalesHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListServices())
}

func (h *SalesHandler) CreateService(c *gin.Context) {
	var req dto.ServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	svc, err := h.svc.CreateService(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *SalesHandler) UpdateService(c *gin.Context) {
	var req dto.ServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	svc, err := h.svc.UpdateService(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *SalesHandler) DeleteService(c *gin.Context) {
	if err := h.svc.DeleteService(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (h *SalesHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	inv, err := h.svc.CreateInvoice(req, claims.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.activity.Record(claims.Username, model.Role(claims.Role), "فاتورة جديدة",
		fmt.Sprintf("فاتورة #%s بقيمة %s", inv.ID, inv.Total.StringFixed(2)), model.ActivitySale)
	c.JSON(http.StatusCreated, inv)
}

func (h *SalesHandler) ListInvoices(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("صيغة الطلب غير صحيحة"))
		return
	}
	c.JSON(http.StatusOK, h.svc.ListInvoices(filter))
}

func (h *SalesHandler) GetInvoice(c *gin.Context) {
	inv, err := h.svc.GetInvoice(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *SalesHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateInvoiceStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id := c.Param("id")
	if err := h.svc.SetStatus(id, model.InvoiceStatus(req.Status)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrInvoiceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	if req.Status == string(model.InvoiceReturned) {
		h.activity.Record(claims.Username, model.Role(claims.Role), "مرتجع فاتورة", "فاتورة #"+id, model.ActivitySale)
	}
	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) PartialReturn(c *gin.Context) {
	var req dto.PartialReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id := c.Param("id")
	refund, err := h.svc.PartialReturn(id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrInvoiceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "مرتجع جزئي",
		fmt.Sprintf("فاتورة #%s بقيمة %s", id, refund.StringFixed(2)), model.ActivitySale)
	c.JSON(http.StatusOK, dto.PartialReturnResponse{Refund: refund})
}

func (h *SalesHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteInvoice(id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "حذف فاتورة", "فاتورة #"+id, model.ActivitySale)
	c.Status(http.StatusNoContent)
}

// ReceiptPDF renders the invoice ticket and streams the file back.
func (h *SalesHandler) ReceiptPDF(c *gin.Context) {
	inv, err := h.svc.GetInvoice(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	path, err := infra.GenerateInvoicePDF(&inv, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر إنشاء ملف الفاتورة"))
		return
	}
	c.FileAttachment(path, "invoice_"+inv.ID+".pdf")
}
