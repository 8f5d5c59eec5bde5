package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/coldreach/internal/cache"
)

type HealthHandler struct {
	cache cache.Checker
}

func NewHealthHandler(c cache.Checker) *HealthHandler {
	return &HealthHandler{cache: c}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	resp := gin.H{"message": "pong"}
	if h.cache == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp["cache"] = h.cache.Backend()
	if err := h.cache.Ping(ctx); err != nil {
		resp["message"] = "degraded"
		resp["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
