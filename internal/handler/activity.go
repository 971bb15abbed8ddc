package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/service"
)

type ActivityHandler struct {
	svc service.ActivityService
}

func NewActivityHandler(svc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}
