package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type StaffHandler struct {
	svc service.StaffService
}

func NewStaffHandler(svc service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func (h *StaffHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.StaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.svc.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *StaffHandler) Update(c *gin.Context) {
	var req dto.StaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) AddBonus(c *gin.Context) {
	var req dto.StaffBonusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.svc.AddBonus(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) AddPenalty(c *gin.Context) {
	var req dto.StaffAmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.svc.AddPenalty(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) AddWithdrawal(c *gin.Context) {
	var req dto.StaffAmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.svc.AddWithdrawal(c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, member)
}
