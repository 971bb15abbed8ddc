package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type BookingsHandler struct {
	svc      service.BookingService
	activity service.ActivityService
}

func NewBookingsHandler(svc service.BookingService, activity service.ActivityService) *BookingsHandler {
	return &BookingsHandler{svc: svc, activity: activity}
}

// ── External books ────────────────────────────────────────────────────────────

func (h *BookingsHandler) ListBooks(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListBooks())
}

func (h *BookingsHandler) CreateBook(c *gin.Context) {
	var req dto.ExternalBookRequest
	if !bindAndValidate(c, &req) {
		return
	}
	book, err := h.svc.CreateBook(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookingsHandler) UpdateBook(c *gin.Context) {
	var req dto.ExternalBookRequest
	if !bindAndValidate(c, &req) {
		return
	}
	book, err := h.svc.UpdateBook(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookingsHandler) ToggleBook(c *gin.Context) {
	book, err := h.svc.ToggleBook(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, book)
}

// ── Bookings ──────────────────────────────────────────────────────────────────

func (h *BookingsHandler) List(c *gin.Context) {
	var filter dto.BookingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("صيغة الطلب غير صحيحة"))
		return
	}
	c.JSON(http.StatusOK, h.svc.List(filter))
}

func (h *BookingsHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	booking, err := h.svc.Create(req, dto.UserResponse{ID: claims.UserID, Username: claims.Username, Role: claims.Role})
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.activity.Record(claims.Username, model.Role(claims.Role), "حجز جديد", booking.Code, model.ActivitySale)
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingsHandler) Collect(c *gin.Context) {
	var req dto.CollectBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	booking, err := h.svc.Collect(c.Param("id"), req, claims.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.activity.Record(claims.Username, model.Role(claims.Role), "تحصيل حجز", booking.Code, model.ActivitySale)
	c.JSON(http.StatusOK, booking)
}

func (h *BookingsHandler) Deliver(c *gin.Context) {
	claims := middleware.GetClaims(c)
	booking, err := h.svc.Deliver(c.Param("id"), claims.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.activity.Record(claims.Username, model.Role(claims.Role), "تسليم حجز", booking.Code, model.ActivitySale)
	c.JSON(http.StatusOK, booking)
}

func (h *BookingsHandler) Cancel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	booking, err := h.svc.Cancel(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.activity.Record(claims.Username, model.Role(claims.Role), "إلغاء حجز", booking.Code, model.ActivitySale)
	c.JSON(http.StatusOK, booking)
}

func (h *BookingsHandler) Receipts(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Receipts(c.Param("id")))
}
