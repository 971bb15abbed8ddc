package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/apierror"
	"github.com/Mahdyy18/center-five-system/internal/infra"
)

type BackupHandler struct {
	sink *infra.LocalSink
}

func NewBackupHandler(sink *infra.LocalSink) *BackupHandler {
	return &BackupHandler{sink: sink}
}

// Receive accepts a client-pushed snapshot and writes it verbatim to the
// fixed backup file. The payload is not inspected; the sink is a dumb drop
// point for the desktop terminal's own backups.
func (h *BackupHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("تعذر قراءة النسخة الاحتياطية"))
		return
	}
	if err := h.sink.Write(payload); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("تعذر حفظ النسخة الاحتياطية"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
