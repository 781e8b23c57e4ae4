package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthHandler struct {
	name    string
	version string
	ready   []Pinger
}

func (h *healthHandler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"app": h.name, "version": h.version})
}

func (h *healthHandler) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

func (h *healthHandler) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for _, p := range h.ready {
		if err := p.Ping(ctx); err != nil {
			abortWithDetail(c, http.StatusServiceUnavailable, "Not ready: "+err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
