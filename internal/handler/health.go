package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/store"
)

// Health reports whether the data directory is writable. The terminal pings
// this on startup before showing the login screen.
func Health(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := "ok"
		status := http.StatusOK
		if err := st.Ping(); err != nil {
			storage = "error"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"storage": storage,
		})
	}
}
