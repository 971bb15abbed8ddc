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

type AuthHandler struct {
	svc      service.AuthService
	activity service.ActivityService
}

func NewAuthHandler(svc service.AuthService, activity service.ActivityService) *AuthHandler {
	return &AuthHandler{svc: svc, activity: activity}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	h.activity.Record(resp.User.Username, model.Role(resp.User.Role), "تسجيل دخول", "", model.ActivitySystem)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	h.activity.Record(claims.Username, model.Role(claims.Role), "إضافة مستخدم", resp.Username, model.ActivitySystem)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListUsers())
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.ChangePassword(claims.UserID, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	if err := h.svc.DeactivateUser(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
